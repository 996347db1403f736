package assistant

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skinsewa/api/pkg/errors"
	"github.com/skinsewa/api/pkg/logger"
)

type fakeCompleter struct {
	reply   string
	err     error
	prompts []string
}

func (f *fakeCompleter) Complete(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}

func newTestService(completer *fakeCompleter) *Service {
	return NewService(completer, logger.NewLogger(nil))
}

func TestAskUsesModelReply(t *testing.T) {
	completer := &fakeCompleter{reply: "Acne is very common; try our photo analysis."}
	svc := newTestService(completer)

	reply, err := svc.Ask(context.Background(), "What is acne?")
	require.NoError(t, err)
	assert.Equal(t, SourceModel, reply.Source)
	assert.Equal(t, "Acne is very common; try our photo analysis.", reply.Text)

	require.Len(t, completer.prompts, 1)
	assert.Contains(t, completer.prompts[0], "skin health consultant")
	assert.True(t, strings.HasSuffix(completer.prompts[0], "What is acne?"))
}

func TestAskFallsBackWhenModelFails(t *testing.T) {
	completer := &fakeCompleter{err: fmt.Errorf("endpoint unreachable")}
	svc := newTestService(completer)

	reply, err := svc.Ask(context.Background(), "I think I have eczema, what should I do?")
	require.NoError(t, err)
	assert.Equal(t, SourceKnowledgeBase, reply.Source)
	assert.Contains(t, reply.Text, "itchy, inflamed skin")
	assert.Contains(t, reply.Text, "Treatments may include")
}

func TestAskFallbackMatchesRegionalKeywords(t *testing.T) {
	completer := &fakeCompleter{err: fmt.Errorf("endpoint unreachable")}
	svc := newTestService(completer)

	reply, err := svc.Ask(context.Background(), "Are there ayurvedic remedies for my skin?")
	require.NoError(t, err)
	assert.Equal(t, SourceKnowledgeBase, reply.Source)
	assert.Contains(t, reply.Text, "turmeric")
}

func TestAskFallbackDefaultsWhenNothingMatches(t *testing.T) {
	completer := &fakeCompleter{err: fmt.Errorf("endpoint unreachable")}
	svc := newTestService(completer)

	reply, err := svc.Ask(context.Background(), "What is the meaning of life?")
	require.NoError(t, err)
	assert.Equal(t, SourceKnowledgeBase, reply.Source)
	assert.Equal(t, noMatchReply, reply.Text)
}

func TestAskHandlesEmptyModelReply(t *testing.T) {
	completer := &fakeCompleter{reply: "   "}
	svc := newTestService(completer)

	reply, err := svc.Ask(context.Background(), "What is rosacea?")
	require.NoError(t, err)
	assert.Equal(t, SourceModel, reply.Source)
	assert.Equal(t, emptyModelReply, reply.Text)
}

func TestAskRejectsEmptyMessage(t *testing.T) {
	completer := &fakeCompleter{}
	svc := newTestService(completer)

	_, err := svc.Ask(context.Background(), "  ")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrBadRequest))
	assert.Empty(t, completer.prompts)
}
