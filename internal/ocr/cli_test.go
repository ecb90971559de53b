package ocr

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/docsort/internal/runner/runnertest"
)

func TestCLIEngine_Recognize(t *testing.T) {
	var seenImage string
	fake := &runnertest.Fake{Handler: func(name string, args []string) ([]byte, []byte, error) {
		b, err := os.ReadFile(args[0])
		if err != nil {
			return nil, nil, err
		}
		seenImage = string(b)
		return []byte("Heading\n\nBody line one\nline two\n"), nil, nil
	}}

	eng, err := NewCLIEngine(CLIConfig{TessdataDir: "/td"}, fake, nil)
	require.NoError(t, err)
	defer eng.Close()

	frags, err := eng.Recognize(context.Background(), []byte("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Heading", "Body line one line two"}, frags)
	assert.Equal(t, "png-bytes", seenImage)

	require.Len(t, fake.Calls, 1)
	c := fake.Calls[0]
	assert.Equal(t, "tesseract", c.Name)
	assert.Equal(t, []string{"stdout", "-l", "hin+eng", "--tessdata-dir", "/td"}, c.Args[1:])
	assert.NoFileExists(t, c.Args[0])
}

func TestCLIEngine_Failure(t *testing.T) {
	fake := &runnertest.Fake{Handler: func(string, []string) ([]byte, []byte, error) {
		return nil, []byte("Failed loading language 'hin'"), errors.New("exit status 1")
	}}
	eng, err := NewCLIEngine(CLIConfig{Tesseract: "/opt/tesseract"}, fake, nil)
	require.NoError(t, err)

	_, err = eng.Recognize(context.Background(), []byte("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed loading language")

	dir := eng.tmpDir
	require.NoError(t, eng.Close())
	assert.NoDirExists(t, dir)
}
