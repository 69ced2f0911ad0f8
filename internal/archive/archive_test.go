package archive

import (
	"bytes"
	"context"
	"errors"
	"io"
	"regexp"
	"strings"
	"testing"
	"time"

	"fjacquet/fincat/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryArchiver struct {
	objects map[string][]byte
	err     error
}

func (m *memoryArchiver) Name() string { return "memory" }
func (m *memoryArchiver) Close() error { return nil }

func (m *memoryArchiver) Archive(ctx context.Context, key string, r io.Reader) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	if _, ok := ctx.Deadline(); !ok {
		return "", errors.New("missing deadline")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	if m.objects == nil {
		m.objects = map[string][]byte{}
	}
	m.objects[key] = data
	return "mem://" + key, nil
}

var keyPattern = regexp.MustCompile(`^uploads/42/20240305143009/[0-9a-f-]{36}-extrato\.csv$`)

func TestObjectKey(t *testing.T) {
	at := time.Date(2024, 3, 5, 14, 30, 9, 0, time.UTC)

	key := ObjectKey("", "42", at, "extrato.csv")
	assert.Regexp(t, keyPattern, key)

	other := ObjectKey("", "42", at, "extrato.csv")
	assert.NotEqual(t, key, other)

	key = ObjectKey("/archive/", "a/b", at, "../../etc/passwd")
	assert.True(t, strings.HasPrefix(key, "archive/a_b/20240305143009/"))
	assert.True(t, strings.HasSuffix(key, "-passwd"))

	key = ObjectKey("uploads", "", at, `C:\Users\me\extrato.ofx`)
	assert.True(t, strings.HasPrefix(key, "uploads/anonymous/"))
	assert.True(t, strings.HasSuffix(key, "-extrato.ofx"))
}

func TestUpload(t *testing.T) {
	logger := logging.NewMockLogger()
	m := &memoryArchiver{}

	loc, err := Upload(context.Background(), m, "uploads/1/x-a.csv", bytes.NewBufferString("data"), logger)
	require.NoError(t, err)
	assert.Equal(t, "mem://uploads/1/x-a.csv", loc)
	assert.Equal(t, []byte("data"), m.objects["uploads/1/x-a.csv"])
	assert.True(t, logger.HasEntry("INFO", "Archived upload"))

	m.err = errors.New("denied")
	_, err = Upload(context.Background(), m, "k", strings.NewReader(""), logger)
	assert.Error(t, err)
	assert.True(t, logger.HasEntry("WARN", "Failed to archive upload"))
}

func TestUpload_NilArchiver(t *testing.T) {
	loc, err := Upload(context.Background(), nil, "k", strings.NewReader("x"), nil)
	assert.NoError(t, err)
	assert.Empty(t, loc)
}

func TestNew(t *testing.T) {
	a, err := New(context.Background(), Settings{}, nil)
	assert.NoError(t, err)
	assert.Nil(t, a)

	_, err = New(context.Background(), Settings{Provider: "s3"}, nil)
	assert.Error(t, err)

	_, err = New(context.Background(), Settings{Provider: "gcs"}, nil)
	assert.Error(t, err)

	_, err = New(context.Background(), Settings{Provider: "azure", ConnectionString: "not a connection string", Container: "uploads"}, nil)
	assert.Error(t, err)

	_, err = New(context.Background(), Settings{Provider: "azure", Container: "uploads"}, nil)
	assert.Error(t, err)
}

func TestAzureArchiver_ConnectionString(t *testing.T) {
	conn := "DefaultEndpointsProtocol=http;AccountName=devstoreaccount1;" +
		"AccountKey=Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTOtr/KBHBeksoGMGw==;" +
		"BlobEndpoint=http://127.0.0.1:10000/devstoreaccount1;"

	a, err := NewAzureArchiverFromConnectionString(conn, "uploads", nil)
	require.NoError(t, err)
	assert.Equal(t, "azure", a.Name())
	assert.NoError(t, a.Close())

	_, err = NewAzureArchiverFromConnectionString(conn, "", nil)
	assert.Error(t, err)
}
