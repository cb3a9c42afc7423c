package transcribe

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/TechnicallyShaun/acta-orbis/internal/fsops"
	"github.com/TechnicallyShaun/acta-orbis/internal/logging"
	"github.com/TechnicallyShaun/acta-orbis/internal/transcribe/client"
	"github.com/TechnicallyShaun/acta-orbis/internal/transcribe/metadata"
	"github.com/TechnicallyShaun/acta-orbis/internal/transcribe/output"
)

// ErrFileTooLarge indicates the audio file exceeds the configured size limit.
var ErrFileTooLarge = errors.New("audio file exceeds size limit")

// Service runs the transcription pipeline for a single recording:
// read metadata, transcribe, optionally diarize, then write the note
// and archive the audio file.
type Service struct {
	cfg      *Config
	client   client.TranscriptionClient
	diarizer client.Diarizer
	writer   *output.Writer
	logger   logging.Logger
}

// ProcessResult describes a completed pipeline run.
type ProcessResult struct {
	OutputPath  string
	ArchivePath string
	Duration    time.Duration
	Diarized    bool
}

// NewService creates a Service from the workspace configuration.
func NewService(cfg *Config, logger logging.Logger) *Service {
	if logger == nil {
		logger = logging.Nop()
	}

	asr := client.NewWhisperASRClient(cfg.APIURL)
	retried := client.NewRetryClient(asr,
		client.WithRetryCount(cfg.RetryCount),
		client.WithRetryLogger(logger),
	)

	s := &Service{
		cfg:    cfg,
		client: retried,
		writer: output.NewWriter(),
		logger: logger,
	}
	if cfg.DiarizeURL != "" {
		s.diarizer = client.NewDiarizeClient(cfg.DiarizeURL)
	}
	return s
}

// ProcessFile runs the full pipeline on one audio file.
func (s *Service) ProcessFile(ctx context.Context, audioPath string) (*ProcessResult, error) {
	fi, err := os.Stat(audioPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat audio file: %w", err)
	}
	if s.cfg.MaxFileSizeMB > 0 && fi.Size() > int64(s.cfg.MaxFileSizeMB)*1024*1024 {
		return nil, fmt.Errorf("%w: %d MB limit", ErrFileTooLarge, s.cfg.MaxFileSizeMB)
	}

	// Recording time comes from the container when it can be read;
	// otherwise the filesystem birth time stands in.
	recordedAt := s.recordingTime(audioPath)

	s.logger.Info("transcribing",
		logging.String("file", filepath.Base(audioPath)),
		logging.Int64("size_bytes", fi.Size()),
	)

	result, err := s.client.Transcribe(ctx, audioPath, client.TranscribeOptions{
		Language: s.cfg.Language,
		Model:    s.cfg.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("transcription failed: %w", err)
	}

	transcript, diarized := s.renderTranscript(ctx, audioPath, result)

	outPath, err := s.writer.Write(ctx, transcript, output.OutputOptions{
		OutputDir:    s.cfg.OutputDir,
		TemplatePath: s.cfg.TemplatePath,
		SourceFile:   audioPath,
		Timestamp:    recordedAt,
		Duration:     time.Duration(result.Duration * float64(time.Second)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to write transcript: %w", err)
	}

	res := &ProcessResult{
		OutputPath: outPath,
		Duration:   time.Duration(result.Duration * float64(time.Second)),
		Diarized:   diarized,
	}

	if s.cfg.ArchiveDir != "" {
		archived, err := s.archive(audioPath)
		if err != nil {
			// The note is already written; the audio stays put.
			s.logger.Error("failed to archive audio", err,
				logging.String("file", audioPath))
		} else {
			res.ArchivePath = archived
		}
	}

	s.logger.Info("transcription complete",
		logging.String("output", outPath),
		logging.Duration("audio_duration", res.Duration),
	)

	return res, nil
}

// renderTranscript produces the note body, with speaker attribution
// when a diarization endpoint is configured and reachable.
func (s *Service) renderTranscript(ctx context.Context, audioPath string, result *client.TranscriptionResult) (string, bool) {
	if s.diarizer == nil {
		return plainTranscript(result), false
	}

	turns, err := s.diarizer.Diarize(ctx, audioPath)
	if err != nil {
		s.logger.Error("diarization failed, writing plain transcript", err,
			logging.String("file", filepath.Base(audioPath)))
		return plainTranscript(result), false
	}

	lines := AlignSpeakers(result, turns)
	return FormatTranscript(lines), true
}

// plainTranscript renders the transcription without speaker labels,
// one timestamped bullet per segment.
func plainTranscript(result *client.TranscriptionResult) string {
	if len(result.Segments) == 0 {
		text := strings.TrimSpace(result.Text)
		if text == "" {
			return ""
		}
		return text + "\n"
	}

	var sb strings.Builder
	for _, seg := range result.Segments {
		fmt.Fprintf(&sb, "- [%s] %s\n", formatTimestamp(seg.Start), strings.TrimSpace(seg.Text))
	}
	return sb.String()
}

func (s *Service) recordingTime(audioPath string) time.Time {
	if info, err := metadata.ReadM4A(audioPath); err == nil && !info.CreatedAt.IsZero() {
		return info.CreatedAt
	}
	if bt, err := fsops.BirthTime(audioPath); err == nil {
		return bt
	}
	return time.Now()
}

func (s *Service) archive(audioPath string) (string, error) {
	if err := os.MkdirAll(s.cfg.ArchiveDir, 0755); err != nil {
		return "", err
	}
	dst := filepath.Join(s.cfg.ArchiveDir, filepath.Base(audioPath))
	if err := fsops.MoveFile(audioPath, dst); err != nil {
		return "", err
	}
	return dst, nil
}
