// Package bot exposes the statement pipeline as a Telegram bot: users send a
// CSV or OFX document and receive the categorized JSON report back.
package bot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"fjacquet/fincat/internal/archive"
	"fjacquet/fincat/internal/export"
	"fjacquet/fincat/internal/fileutils"
	"fjacquet/fincat/internal/logging"
	"fjacquet/fincat/internal/models"
	"fjacquet/fincat/internal/parser"
	"fjacquet/fincat/internal/parsererror"
	"fjacquet/fincat/internal/pipeline"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Messenger is the part of the Telegram API the handler uses.
// *tgbotapi.BotAPI satisfies it.
type Messenger interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetFileDirectURL(fileID string) (string, error)
}

// Settings tunes upload handling.
type Settings struct {
	MaxFileSize   int64
	WorkDir       string
	KeepFiles     bool
	ArchivePrefix string
}

// Handler reacts to Telegram updates.
type Handler struct {
	api        Messenger
	processor  *pipeline.Processor
	archiver   archive.Archiver
	settings   Settings
	httpClient *http.Client
	logger     logging.Logger
	now        func() time.Time
}

// NewHandler creates a Handler. archiver may be nil to disable archiving.
func NewHandler(api Messenger, processor *pipeline.Processor, archiver archive.Archiver, settings Settings, logger logging.Logger) *Handler {
	return &Handler{
		api:        api,
		processor:  processor,
		archiver:   archiver,
		settings:   settings,
		httpClient: &http.Client{Timeout: 2 * time.Minute},
		logger:     logging.OrDefault(logger),
		now:        time.Now,
	}
}

// SetHTTPClient replaces the client used to download documents.
func (h *Handler) SetHTTPClient(c *http.Client) {
	if c != nil {
		h.httpClient = c
	}
}

// HandleUpdate processes one update. A panic is logged and answered with a
// generic error message.
func (h *Handler) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("Unhandled panic in update handler",
				logging.Field{Key: logging.FieldError, Value: fmt.Sprintf("%v", r)})
			h.reply(msg.Chat.ID, msgUnexpectedError)
		}
	}()

	switch {
	case msg.IsCommand():
		h.handleCommand(msg)
	case msg.Document != nil:
		h.handleDocument(ctx, msg)
	default:
		h.reply(msg.Chat.ID, msgInvalidInput)
	}
}

func (h *Handler) handleCommand(msg *tgbotapi.Message) {
	h.logger.Info("Command received",
		logging.Field{Key: logging.FieldUserID, Value: userID(msg)},
		logging.Field{Key: logging.FieldOperation, Value: msg.Command()})
	switch msg.Command() {
	case "start", "help":
		h.reply(msg.Chat.ID, msgWelcome)
	default:
		h.reply(msg.Chat.ID, msgInvalidInput)
	}
}

func (h *Handler) handleDocument(ctx context.Context, msg *tgbotapi.Message) {
	doc := msg.Document
	name := fileutils.SanitizeFilename(doc.FileName)
	uid := userID(msg)
	log := h.logger.WithFields(
		logging.Field{Key: logging.FieldUserID, Value: uid},
		logging.Field{Key: logging.FieldFile, Value: name})
	log.Info("Document received")

	format := parser.FormatFromFilename(name)
	if format == models.FormatUnknown {
		h.reply(msg.Chat.ID, fmt.Sprintf(msgUnsupportedFile, name))
		return
	}
	h.reply(msg.Chat.ID, fmt.Sprintf(msgReceivedFile, name)+fmt.Sprintf(msgDetectedType, strings.ToUpper(format.String())))

	workDir, err := fileutils.NewWorkDir(h.settings.WorkDir)
	if err != nil {
		log.WithError(err).Error("Failed to create work directory")
		h.reply(msg.Chat.ID, fmt.Sprintf(msgProcessingError, err.Error()))
		return
	}
	defer h.cleanup(workDir, log)

	if err := h.process(ctx, msg, name, workDir, log); err != nil {
		log.WithError(err).Error("Failed to process document")
		h.reply(msg.Chat.ID, fmt.Sprintf(msgProcessingError, h.userMessage(err)))
	}
}

func (h *Handler) process(ctx context.Context, msg *tgbotapi.Message, name, workDir string, log logging.Logger) error {
	if err := fileutils.CheckSize(int64(msg.Document.FileSize), h.settings.MaxFileSize); err != nil {
		return err
	}

	localPath := filepath.Join(workDir, name)
	if err := h.download(ctx, msg.Document.FileID, localPath); err != nil {
		return err
	}
	log.Info("Document downloaded", logging.Field{Key: logging.FieldInputFile, Value: localPath})

	h.archive(ctx, userID(msg), name, localPath, log)

	outcome, err := h.processor.ProcessFile(ctx, localPath)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := export.WriteJSON(&buf, outcome.Payload()); err != nil {
		return err
	}
	resultName := fileutils.Stem(name) + "_categorized.json"
	if err := os.WriteFile(filepath.Join(workDir, resultName), buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("error writing result: %w", err)
	}

	reply := tgbotapi.NewDocument(msg.Chat.ID, tgbotapi.FileBytes{Name: resultName, Bytes: buf.Bytes()})
	reply.Caption = caption(outcome.Statement.Len(), outcome.AIOK)
	if _, err := h.api.Send(reply); err != nil {
		return fmt.Errorf("error sending result: %w", err)
	}
	log.Info("Result sent",
		logging.Field{Key: logging.FieldOutputFile, Value: resultName},
		logging.Field{Key: logging.FieldCount, Value: outcome.Statement.Len()})
	return nil
}

// download fetches a Telegram file into dest, enforcing the size limit on
// the bytes actually received.
func (h *Handler) download(ctx context.Context, fileID, dest string) error {
	url, err := h.api.GetFileDirectURL(fileID)
	if err != nil {
		return fmt.Errorf("error resolving file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("error building download request: %w", err)
	}
	resp, err := h.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error downloading file: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("error downloading file: status %d", resp.StatusCode)
	}

	f, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("error creating local file: %w", err)
	}
	defer f.Close()

	body := io.Reader(resp.Body)
	if h.settings.MaxFileSize > 0 {
		body = io.LimitReader(resp.Body, h.settings.MaxFileSize+1)
	}
	n, err := io.Copy(f, body)
	if err != nil {
		return fmt.Errorf("error saving file: %w", err)
	}
	return fileutils.CheckSize(n, h.settings.MaxFileSize)
}

// archive stores the raw upload. Failures are logged and do not stop
// processing.
func (h *Handler) archive(ctx context.Context, uid, name, localPath string, log logging.Logger) {
	if h.archiver == nil {
		return
	}
	f, err := os.Open(localPath)
	if err != nil {
		log.WithError(err).Warn("Failed to open upload for archiving")
		return
	}
	defer f.Close()
	key := archive.ObjectKey(h.settings.ArchivePrefix, uid, h.now().UTC(), name)
	_, _ = archive.Upload(ctx, h.archiver, key, f, log)
}

func (h *Handler) cleanup(dir string, log logging.Logger) {
	if h.settings.KeepFiles {
		log.Info("Keeping temporary files for debugging", logging.Field{Key: "dir", Value: dir})
		return
	}
	if err := os.RemoveAll(dir); err != nil {
		log.WithError(err).Warn("Failed to remove temporary directory", logging.Field{Key: "dir", Value: dir})
		return
	}
	log.Debug("Temporary directory removed", logging.Field{Key: "dir", Value: dir})
}

func (h *Handler) userMessage(err error) string {
	if errors.Is(err, parsererror.ErrFileTooLarge) {
		return fmt.Sprintf(msgTooLarge, h.settings.MaxFileSize/(1024*1024))
	}
	return err.Error()
}

func (h *Handler) reply(chatID int64, text string) {
	if _, err := h.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		h.logger.WithError(err).Warn("Failed to send message")
	}
}

func caption(count int, aiOK bool) string {
	lines := []string{captionDone, fmt.Sprintf(captionCount, count)}
	if !aiOK {
		lines = append(lines, captionAIUnavailable)
	}
	return strings.Join(lines, "\n")
}

func userID(msg *tgbotapi.Message) string {
	if msg.From == nil {
		return ""
	}
	return strconv.FormatInt(msg.From.ID, 10)
}
