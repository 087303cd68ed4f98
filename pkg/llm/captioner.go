package llm

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"
	"unicode"

	"Shutter/config"
	"Shutter/pkg/log"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"go.uber.org/zap"
)

const captionPrompt = "Describe this photo in one short plain sentence. No hashtags, no quotes."

var ErrEmptyCaption = errors.New("model returned no caption")

// Captioner describes an image reachable at a public URL.
type Captioner interface {
	Caption(ctx context.Context, imageURL string) (string, error)
}

type OpenAICaptioner struct {
	client openai.Client
	model  string
}

func NewCaptioner(cfg *config.Llm) *OpenAICaptioner {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(time.Duration(cfg.Timeout)*time.Second))
	}
	return &OpenAICaptioner{client: openai.NewClient(opts...), model: cfg.Model}
}

func (c *OpenAICaptioner) Caption(ctx context.Context, imageURL string) (string, error) {
	contentParts := []openai.ChatCompletionContentPartUnionParam{
		{
			OfText: &openai.ChatCompletionContentPartTextParam{Text: captionPrompt},
		},
		{
			OfImageURL: &openai.ChatCompletionContentPartImageParam{
				ImageURL: openai.ChatCompletionContentPartImageImageURLParam{URL: imageURL},
			},
		},
	}
	userMessage := openai.ChatCompletionUserMessageParam{
		Content: openai.ChatCompletionUserMessageParamContentUnion{
			OfArrayOfContentParts: contentParts,
		},
	}
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			{OfUser: &userMessage},
		},
	}

	startTime := time.Now()
	completion, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", err
	}
	if len(completion.Choices) == 0 {
		return "", ErrEmptyCaption
	}
	content := strings.TrimSpace(completion.Choices[0].Message.Content)
	log.L.Info("caption", zap.String("caption", content), zap.Duration("gen time", time.Since(startTime)))
	if content == "" {
		return "", ErrEmptyCaption
	}
	return content, nil
}

var hashtag = regexp.MustCompile(`#[^\s#]+`)

// ParseTags extracts "#tag" tokens without the leading '#'.
func ParseTags(input string) []string {
	var tags []string
	for _, tag := range hashtag.FindAllString(input, -1) {
		tags = append(tags, strings.TrimPrefix(tag, "#"))
	}
	return tags
}

// ParseCaption turns a caption into lowercase word tags, in order, without
// duplicates. Hashtags are honoured when the model ignores the prompt.
func ParseCaption(caption string) []string {
	words := ParseTags(caption)
	if len(words) == 0 {
		words = strings.Fields(caption)
	}
	seen := make(map[string]struct{}, len(words))
	tags := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimFunc(w, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		}))
		if w == "" {
			continue
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		tags = append(tags, w)
	}
	return tags
}

// New returns nil when captioning is disabled; photos are then tagged with an empty list.
func New(cfg *config.Llm) Captioner {
	if cfg == nil || !cfg.Enabled {
		return nil
	}
	return NewCaptioner(cfg)
}
