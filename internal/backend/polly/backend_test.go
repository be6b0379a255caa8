package polly

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/polly"
	"github.com/aws/aws-sdk-go/service/polly/pollyiface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekisa-team/narrate/internal/backend"
)

// fakePolly echoes each chunk back as its "audio".
type fakePolly struct {
	pollyiface.PollyAPI

	mu     sync.Mutex
	inputs []*polly.SynthesizeSpeechInput
	err    error
}

func (f *fakePolly) SynthesizeSpeechWithContext(_ aws.Context, in *polly.SynthesizeSpeechInput, _ ...request.Option) (*polly.SynthesizeSpeechOutput, error) {
	f.mu.Lock()
	f.inputs = append(f.inputs, in)
	f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	return &polly.SynthesizeSpeechOutput{
		AudioStream: io.NopCloser(strings.NewReader("[" + aws.StringValue(in.Text) + "]")),
	}, nil
}

func outputPath(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "out.mp3")
	require.NoError(t, os.WriteFile(path, nil, 0o600))
	return path
}

func TestBackend_Synthesize(t *testing.T) {
	client := &fakePolly{}
	b := NewBackendWithClient(client, "")
	out := outputPath(t)

	resp, err := b.Synthesize(context.Background(), &backend.Request{
		Text:       "Hello world",
		Voice:      "Joanna",
		OutputPath: out,
	})
	require.NoError(t, err)

	require.Len(t, client.inputs, 1)
	in := client.inputs[0]
	assert.Equal(t, "Hello world", aws.StringValue(in.Text))
	assert.Equal(t, "Joanna", aws.StringValue(in.VoiceId))
	assert.Equal(t, polly.OutputFormatMp3, aws.StringValue(in.OutputFormat))
	assert.Equal(t, polly.EngineNeural, aws.StringValue(in.Engine))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "[Hello world]", string(data))
	assert.Equal(t, int64(len(data)), resp.Metadata.OutputBytes)
	assert.Equal(t, backend.ProviderPolly, resp.Metadata.Provider)
}

func TestBackend_SynthesizeKeepsChunkOrder(t *testing.T) {
	client := &fakePolly{}
	b := NewBackendWithClient(client, polly.EngineStandard)
	out := outputPath(t)

	paragraphs := make([]string, 6)
	for i := range paragraphs {
		paragraphs[i] = strings.Repeat(string(rune('a'+i)), MaxCharactersPerRequest-10)
	}

	_, err := b.Synthesize(context.Background(), &backend.Request{
		Text:       strings.Join(paragraphs, "\n\n"),
		Voice:      "Matthew",
		OutputPath: out,
	})
	require.NoError(t, err)
	assert.Len(t, client.inputs, 6)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "["+strings.Join(paragraphs, "][")+"]", string(data))
}

func TestBackend_SynthesizeError(t *testing.T) {
	b := NewBackendWithClient(&fakePolly{err: errors.New("InvalidSsmlException")}, "")

	_, err := b.Synthesize(context.Background(), &backend.Request{Text: "Hi", Voice: "Joanna", OutputPath: outputPath(t)})
	assert.ErrorContains(t, err, "InvalidSsmlException")
}

func TestBackend_InvalidRequest(t *testing.T) {
	b := NewBackendWithClient(&fakePolly{}, "")

	_, err := b.Synthesize(context.Background(), &backend.Request{Text: "", OutputPath: "x"})
	assert.ErrorIs(t, err, backend.ErrEmptyText)

	_, err = b.Synthesize(context.Background(), &backend.Request{Text: "Hi"})
	assert.ErrorIs(t, err, backend.ErrOutputPathEmpty)
}

func TestSplitTextOnParagraphs(t *testing.T) {
	chunks := splitTextOnParagraphs("one\n\ntwo\nthree", 9)
	assert.Equal(t, []string{"one\ntwo", "three"}, chunks)

	chunks = splitTextOnParagraphs("alpha beta gamma delta", 11)
	assert.Equal(t, []string{"alpha beta", "gamma delta"}, chunks)

	for _, c := range splitTextOnParagraphs(strings.Repeat("word ", 2000), 100) {
		assert.LessOrEqual(t, len(c), 100)
	}

	assert.Empty(t, splitTextOnParagraphs("\n\n\n", 10))
}

func TestSplitTextOnWords_LongWord(t *testing.T) {
	chunks := splitTextOnWords("ééééé", 4)
	assert.Equal(t, []string{"éé", "éé", "é"}, chunks)
}

func TestNewSession_RequiresRegion(t *testing.T) {
	_, err := NewSession("", "", "")
	assert.Error(t, err)

	sess, err := NewSession("us-east-1", "AKID", "SECRET")
	require.NoError(t, err)
	assert.Equal(t, "us-east-1", aws.StringValue(sess.Config.Region))
}
