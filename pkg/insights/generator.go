package insights

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/clockheat/clockheat/internal/config"
	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/generativelanguage/v1beta"
	"google.golang.org/api/option"
)

const generativeLanguageScope = "https://www.googleapis.com/auth/generative-language"

var (
	ErrDisabled      = errors.New("insights are disabled")
	ErrEmptyResponse = errors.New("model returned no insights")
)

type Insights struct {
	Text string `json:"insights"`
}

type Generator interface {
	Generate(ctx context.Context, payload string) (Insights, error)
}

// GeminiGenerator sends the coaching prompt to a Gemini model through the
// Generative Language API.
type GeminiGenerator struct {
	cfg config.Insights
}

func NewGeminiGenerator(cfg config.Insights) *GeminiGenerator {
	return &GeminiGenerator{cfg: cfg}
}

func (g *GeminiGenerator) Generate(ctx context.Context, payload string) (Insights, error) {
	if !g.cfg.Enabled {
		return Insights{}, ErrDisabled
	}

	prompt, err := BuildPrompt(payload)
	if err != nil {
		return Insights{}, fmt.Errorf("failed to build prompt: %w", err)
	}

	service, err := g.prepareService(ctx)
	if err != nil {
		return Insights{}, err
	}

	request := &generativelanguage.GenerateContentRequest{
		Contents: []*generativelanguage.Content{{
			Role:  "user",
			Parts: []*generativelanguage.Part{{Text: prompt}},
		}},
	}
	log.Debugf("Requesting insights from %s (%d bytes of data)", g.cfg.Model, len(payload))
	response, err := service.Models.GenerateContent(g.cfg.Model, request).Context(ctx).Do()
	if err != nil {
		err := fmt.Errorf("unable to generate insights: %w", err)
		log.Error(err)
		return Insights{}, err
	}

	text := responseText(response)
	if text == "" {
		return Insights{}, ErrEmptyResponse
	}
	return Insights{Text: text}, nil
}

// prepareService authenticates with the configured API key, or with the
// application default credentials when no key is set.
func (g *GeminiGenerator) prepareService(ctx context.Context) (*generativelanguage.Service, error) {
	var opt option.ClientOption
	if g.cfg.ApiKey != "" {
		opt = option.WithAPIKey(g.cfg.ApiKey)
	} else {
		tokenSource, err := google.DefaultTokenSource(ctx, generativeLanguageScope)
		if err != nil {
			err := fmt.Errorf("no insights API key and no default Google credentials: %w", err)
			log.Error(err)
			return nil, err
		}
		opt = option.WithTokenSource(tokenSource)
	}

	service, err := generativelanguage.NewService(ctx, opt)
	if err != nil {
		err := fmt.Errorf("unable to create Generative Language client: %w", err)
		log.Error(err)
		return nil, err
	}
	return service, nil
}

func responseText(response *generativelanguage.GenerateContentResponse) string {
	if response == nil {
		return ""
	}
	var sb strings.Builder
	for _, candidate := range response.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			sb.WriteString(part.Text)
		}
		// the first candidate with content is the answer
		if sb.Len() > 0 {
			break
		}
	}
	return strings.TrimSpace(sb.String())
}
