package assistant

import (
	"context"
	"strings"

	"github.com/skinsewa/api/pkg/errors"
	"github.com/skinsewa/api/pkg/logger"
)

// Completer is the text-only model call behind the assistant.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Reply sources, reported so clients can tell a model answer from a
// knowledge-base fallback.
const (
	SourceModel         = "model"
	SourceKnowledgeBase = "knowledge_base"
)

const consultantPrompt = `You are a skin health consultant working for SkinSewa, an Indian healthcare platform focused on skin conditions.

About SkinSewa:
- A web platform that helps users identify potential skin conditions
- Users can upload photos of skin conditions for AI analysis
- Provides educational resources about skin health
- Connects users with dermatologists in India
- Offers resources specifically tailored for Indian skin types and conditions

Please respond as a helpful SkinSewa consultant. Answer the user's question in a friendly, professional manner.
If the question is about a specific skin condition, briefly explain it and suggest they use our photo analysis feature.
If the question is about the website functionality, explain how to use that feature.
Keep responses concise (2-3 paragraphs maximum).

User question: `

const emptyModelReply = "I'm sorry, I couldn't generate a proper response. Could you try asking in a different way?"

const noMatchReply = "I'm not quite sure how to help with that specific question. Could you try asking something about common skin conditions, treatment options, or skincare routines?"

type Reply struct {
	Text   string `json:"text"`
	Source string `json:"source"`
}

// Service answers free-text skin questions: the model first, the local
// knowledge base when the model is unreachable.
type Service struct {
	gateway Completer
	rules   []rule
	logger  *logger.Logger
}

func NewService(gateway Completer, logger *logger.Logger) *Service {
	return &Service{
		gateway: gateway,
		rules:   buildRules(),
		logger:  logger,
	}
}

func (s *Service) Ask(ctx context.Context, message string) (*Reply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, errors.BadRequest("message must not be empty", nil)
	}

	text, err := s.gateway.Complete(ctx, consultantPrompt+message)
	if err != nil {
		s.logger.Warn("assistant model call failed, answering from knowledge base", "error", err.Error())
		return &Reply{Text: s.lookup(message), Source: SourceKnowledgeBase}, nil
	}
	if strings.TrimSpace(text) == "" {
		return &Reply{Text: emptyModelReply, Source: SourceModel}, nil
	}
	return &Reply{Text: text, Source: SourceModel}, nil
}

// lookup scans the corpus rules in order and returns the first keyword
// hit.
func (s *Service) lookup(message string) string {
	normalized := strings.ToLower(message)
	for _, r := range s.rules {
		for _, keyword := range r.keywords {
			if strings.Contains(normalized, keyword) {
				return r.response
			}
		}
	}
	return noMatchReply
}
