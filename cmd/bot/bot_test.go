package bot

import (
	"testing"

	"fjacquet/fincat/cmd/root"
	"fjacquet/fincat/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	root.Init()
	root.Cmd.AddCommand(Cmd)
}

func TestBotCommand_Metadata(t *testing.T) {
	assert.Equal(t, "bot", Cmd.Use)
	assert.Contains(t, Cmd.Long, "TELEGRAM_BOT_TOKEN")
	assert.NotNil(t, Cmd.RunE)
}

func TestBotCommand_RequiresToken(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("FINCAT_BOT_TOKEN", "")
	root.SharedFlags = root.CommonFlags{}

	root.Cmd.SetArgs([]string{"bot"})
	err := root.Cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bot token is not configured")
}

func TestSettings(t *testing.T) {
	cfg := &config.Config{}
	cfg.Bot.MaxFileSizeMB = 5
	cfg.Bot.WorkDir = "/tmp/fincat"
	cfg.Archive.Prefix = "uploads"

	s := Settings(cfg)
	assert.Equal(t, int64(5*1024*1024), s.MaxFileSize)
	assert.Equal(t, "/tmp/fincat", s.WorkDir)
	assert.Equal(t, "uploads", s.ArchivePrefix)
	assert.False(t, s.KeepFiles)

	cfg.Bot.Debug = true
	assert.True(t, Settings(cfg).KeepFiles)

	cfg.Bot.Debug = false
	cfg.Bot.KeepFiles = true
	assert.True(t, Settings(cfg).KeepFiles)
}
