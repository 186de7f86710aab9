package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"

	"github.com/sudo-init-do/ecosync/internal/metrics"
)

const (
	DefaultSummary     = "Keep up the great work on EcoSync!"
	ChatUnavailable    = "I'm currently unavailable. Please try again later."
	ChatDegraded       = "I'm having trouble responding right now. Please try again."
	defaultProfileName = "User"
	notSpecified       = "Not specified"
)

type Recommendation struct {
	Item   string `json:"item"`
	Reason string `json:"reason"`
	Type   string `json:"type"`
}

type Insight struct {
	Tip             string `json:"tip"`
	PotentialImpact string `json:"potential_impact"`
}

type Badge struct {
	Emoji       string `json:"emoji"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type ImageAnalysis struct {
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Condition   string  `json:"condition"`
}

type ProfileSuggestions struct {
	Bio       string   `json:"bio"`
	Skills    []string `json:"skills"`
	Interests []string `json:"interests"`
}

// Profile is the part of a user every prompt mentions.
type Profile struct {
	Name      string
	EcoPoints int
	Level     string
}

// Activity summarises what a user has done on the platform.
type Activity struct {
	ItemTitles   []string
	RecentTitles []string
	Categories   []string
	Transactions int
	DaysActive   int
	ResponseRate int
}

type Impact struct {
	CO2Saved    float64
	MoneySaved  float64
	ItemsShared int
}

type ChatContext struct {
	LoggedIn    bool
	UserName    string
	ItemsShared int
}

type PartialProfile struct {
	Name     string `json:"name"`
	Location string `json:"location"`
	Items    string `json:"items"`
}

// Service runs the AI operations. A nil model makes every operation return its
// default with StatusUnavailable without any network call.
type Service struct {
	model  Model
	logger *zap.Logger
}

func NewService(model Model, logger *zap.Logger) *Service {
	return &Service{model: model, logger: logger.Named("ai")}
}

func (s *Service) Enabled() bool { return s.model != nil }

func (s *Service) Recommendations(ctx context.Context, p Profile, a Activity) Result[[]Recommendation] {
	prompt := fmt.Sprintf(`You are an AI assistant for EcoSync, a peer-to-peer sharing platform. Analyze this user's profile and suggest 5 items they might want to borrow or lend.

User Profile:
- Name: %s
- Eco Points: %d
- Level: %s
- Items Shared: %d
- Transactions: %d

Items they currently share: %s

Recent activity: %s

Provide 5 specific item recommendations with brief reasons. Format as JSON array:
[{"item": "item name", "reason": "why they might need it", "type": "borrow or lend"}]`,
		p.Name, p.EcoPoints, p.Level, len(a.ItemTitles), a.Transactions,
		listOrNone(a.ItemTitles), listOrNone(first(a.RecentTitles, 3)))
	return structured(ctx, s, "recommendations", prompt, nil, '[', recommendationsValidator, []Recommendation{})
}

func (s *Service) EcoInsights(ctx context.Context, p Profile, im Impact) Result[[]Insight] {
	prompt := fmt.Sprintf(`You are an eco-impact analyst for EcoSync. Analyze this user's environmental impact and provide 3 actionable tips to improve.

User Stats:
- CO2 Saved: %g kg
- Money Saved: ₹%g
- Items Shared: %d
- Eco Points: %d
- Level: %s

Provide 3 specific, actionable tips to increase their eco-impact. Be encouraging and specific. Format as JSON array:
[{"tip": "specific action", "potential_impact": "estimated CO2 or money savings"}]`,
		im.CO2Saved, im.MoneySaved, im.ItemsShared, p.EcoPoints, p.Level)
	return structured(ctx, s, "insights", prompt, nil, '[', insightsValidator, []Insight{})
}

func (s *Service) AchievementSummary(ctx context.Context, p Profile, achievements []string) Result[string] {
	prompt := fmt.Sprintf(`Create a personalized, encouraging achievement summary for this EcoSync user.

User: %s
Level: %s
Eco Points: %d
Achievements: %s

Write a 2-3 sentence motivational summary highlighting their impact and encouraging continued participation. Be warm and personal.`,
		p.Name, p.Level, p.EcoPoints, strings.Join(achievements, ", "))
	return s.text(ctx, "achievement_summary", prompt, DefaultSummary, DefaultSummary)
}

func (s *Service) SmartBadges(ctx context.Context, a Activity) Result[[]Badge] {
	prompt := fmt.Sprintf(`Based on this user's activity, suggest 3 unique, creative badges they've earned.

User Activity:
- Items Shared: %d
- Transactions: %d
- Days Active: %d
- Response Rate: %d%%
- Categories Used: %s

Create 3 unique badge names with emoji and description. Be creative and specific to their behavior. Format as JSON:
[{"emoji": "🎯", "name": "Badge Name", "description": "Why they earned it"}]`,
		len(a.ItemTitles), a.Transactions, a.DaysActive, a.ResponseRate, strings.Join(a.Categories, ", "))
	return structured(ctx, s, "smart_badges", prompt, nil, '[', badgesValidator, []Badge{})
}

// AnalyzeImage expects an image already passed through PrepareImage.
func (s *Service) AnalyzeImage(ctx context.Context, img Image) Result[*ImageAnalysis] {
	const prompt = `Analyze this image and identify the item. Provide:
1. Item name
2. Category (tools, kitchen, electronics, outdoor, sports, other)
3. Brief description
4. Suggested rental price per day in INR
5. Condition assessment

Format as JSON:
{"name": "", "category": "", "description": "", "price": 0, "condition": ""}`
	res := structured(ctx, s, "analyze_image", prompt, []Image{img}, '{', imageValidator, ImageAnalysis{})
	if !res.OK() {
		return Result[*ImageAnalysis]{Status: res.Status}
	}
	return Result[*ImageAnalysis]{Value: &res.Value, Status: StatusOK}
}

func (s *Service) Chat(ctx context.Context, message string, cc ChatContext) Result[string] {
	name := cc.UserName
	if name == "" {
		name = "Guest"
	}
	prompt := fmt.Sprintf(`You are EcoBot, a helpful assistant for EcoSync - a peer-to-peer sharing platform for tools and items.

User Context:
- Logged in: %t
- User name: %s
- Items shared: %d

User message: %q

Provide a helpful, friendly response. Keep it concise (2-3 sentences). If they ask about features, explain how EcoSync works. If they need help, guide them step by step.`,
		cc.LoggedIn, name, cc.ItemsShared, message)
	return s.text(ctx, "chat", prompt, ChatUnavailable, ChatDegraded)
}

func (s *Service) ProfileSuggestions(ctx context.Context, pp PartialProfile) Result[ProfileSuggestions] {
	prompt := fmt.Sprintf(`Based on this partial user profile, suggest a bio, skills, and interests for an EcoSync user.

Partial Profile:
- Name: %s
- Location: %s
- Items they might share: %s

Generate:
1. A friendly 2-sentence bio
2. 3-5 relevant skills
3. 3-5 interests related to sharing economy

Format as JSON:
{"bio": "", "skills": [], "interests": []}`,
		orDefault(pp.Name, defaultProfileName), orDefault(pp.Location, notSpecified), orDefault(pp.Items, notSpecified))
	empty := ProfileSuggestions{Skills: []string{}, Interests: []string{}}
	return structured(ctx, s, "profile_suggestions", prompt, nil, '{', profileValidator, empty)
}

func structured[T any](ctx context.Context, s *Service, op, prompt string, images []Image,
	open byte, schema *gojsonschema.Schema, fallback T) Result[T] {
	if s.model == nil {
		return finishResult(s, op, Result[T]{Value: fallback, Status: StatusUnavailable}, nil)
	}
	reply, err := s.model.Generate(ctx, prompt, images...)
	if err != nil {
		return finishResult(s, op, Result[T]{Value: fallback, Status: upstreamStatus(err)}, err)
	}
	var v T
	if err := decodeReply(reply, open, schema, &v); err != nil {
		return finishResult(s, op, Result[T]{Value: fallback, Status: StatusDegraded}, err)
	}
	return finishResult(s, op, Result[T]{Value: v, Status: StatusOK}, nil)
}

func (s *Service) text(ctx context.Context, op, prompt, unavailable, degraded string) Result[string] {
	if s.model == nil {
		return finishResult(s, op, Result[string]{Value: unavailable, Status: StatusUnavailable}, nil)
	}
	reply, err := s.model.Generate(ctx, prompt)
	if err == nil && strings.TrimSpace(reply) == "" {
		err = ErrEmptyReply
	}
	if err != nil {
		return finishResult(s, op, Result[string]{Value: degraded, Status: upstreamStatus(err)}, err)
	}
	return finishResult(s, op, Result[string]{Value: strings.TrimSpace(reply), Status: StatusOK}, nil)
}

// upstreamStatus classifies a Generate failure: the model answering with nothing usable
// is degraded, anything else means the model could not be reached.
func upstreamStatus(err error) Status {
	if errors.Is(err, ErrEmptyReply) {
		return StatusDegraded
	}
	return StatusUnavailable
}

func finishResult[T any](s *Service, op string, r Result[T], err error) Result[T] {
	metrics.RecordAIResult(op, string(r.Status))
	if err != nil {
		s.logger.Warn("ai operation failed", zap.String("op", op), zap.Error(err))
	}
	return r
}

func listOrNone(xs []string) string {
	if len(xs) == 0 {
		return "None"
	}
	return strings.Join(xs, ", ")
}

func first(xs []string, n int) []string {
	if len(xs) > n {
		return xs[:n]
	}
	return xs
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
