package service

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"maumjari-counsel-be/internal/dto"
	"maumjari-counsel-be/internal/entity"
	"maumjari-counsel-be/internal/pkg/logger"
	"maumjari-counsel-be/internal/repository/contract"
	"maumjari-counsel-be/pkg/chathistory"
	"maumjari-counsel-be/pkg/llm"
	"maumjari-counsel-be/pkg/report"
)

const ReportServiceName = "professional-counseling-report-server"

var reportEndpoints = []string{"/report", "/health", "/checklist"}

// TranscriptSource loads a day's history from outside this process;
// *chathistory.Client satisfies it.
type TranscriptSource interface {
	Fetch(ctx context.Context, date string) (chathistory.Transcript, error)
}

type IReportService interface {
	Report(ctx context.Context, request *dto.ReportRequest) (*report.Report, error)
	GenerateReport(ctx context.Context, request *dto.GenerateReportRequest) (*report.Report, error)
	Checklist(ctx context.Context) *dto.ChecklistResponse
	Health(ctx context.Context) *dto.ReportHealthResponse
}

type reportService struct {
	llmProvider llm.LLMProvider
	archive     contract.CounselingTurnRepository
	external    TranscriptSource
	logger      logger.ILogger

	mu  sync.Mutex
	rng *rand.Rand

	now func() time.Time
}

// NewReportService builds the report path. llmProvider nil means every
// report uses the deterministic body; external nil means the archive is
// the only transcript source.
func NewReportService(
	llmProvider llm.LLMProvider,
	archive contract.CounselingTurnRepository,
	external TranscriptSource,
	log logger.ILogger,
) IReportService {
	return &reportService{
		llmProvider: llmProvider,
		archive:     archive,
		external:    external,
		logger:      log,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
		now:         time.Now,
	}
}

func reportOptions() []llm.Option {
	return []llm.Option{
		llm.WithMaxTokens(600),
		llm.WithTemperature(0.6),
		llm.WithTopP(0.9),
		llm.WithTopK(40),
	}
}

func (rs *reportService) Report(ctx context.Context, request *dto.ReportRequest) (*report.Report, error) {
	date := rs.dateOrToday(request.Date)

	rs.logger.Info("ReportService", "Report requested", map[string]interface{}{
		"date":        date,
		"chat_count":  request.ChatCount,
		"text_length": utf8.RuneCountInString(request.ChatHistory),
	})

	if utf8.RuneCountInString(strings.TrimSpace(request.ChatHistory)) < report.MinTranscriptRunes {
		res := report.NoSession(date, report.MessageInsufficientHistory, report.VersionIndexCompatible, rs.now())
		return &res, nil
	}

	res := rs.build(ctx, date, request.ChatHistory, request.ChatCount, isPresent(request.PreviousSession))
	res.ReportVersion = report.VersionIndexCompatible
	return &res, nil
}

func (rs *reportService) GenerateReport(ctx context.Context, request *dto.GenerateReportRequest) (*report.Report, error) {
	date := rs.dateOrToday(request.Date)

	transcript, err := rs.transcript(ctx, date)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(transcript.Text) == "" {
		res := report.NoSession(date, report.MessageNoHistory, report.VersionReactOptimized, rs.now())
		return &res, nil
	}

	hasPrevious := isPresent(request.PreviousSession)
	if !hasPrevious {
		hasPrevious, err = rs.hasPreviousDay(ctx, date)
		if err != nil {
			return nil, err
		}
	}

	res := rs.build(ctx, date, transcript.Text, transcript.UserMessages, hasPrevious)
	res.Title = fmt.Sprintf("%s 전문 심리상담 리포트", date)
	res.Mood = res.PsychologicalState.DominantEmotion
	res.Content = res.ProfessionalReport
	res.Activities = strings.Split(res.ProfessionalReport, "\n")
	res.GeneratedAtCamel = res.GeneratedAt
	res.ReportVersion = report.VersionReactOptimized

	rs.logger.Info("ReportService", "Report generated", map[string]interface{}{
		"date":             date,
		"session_count":    res.SessionCount,
		"dominant_emotion": res.Mood,
	})
	return &res, nil
}

func (rs *reportService) build(ctx context.Context, date, transcript string, chatCount int, hasPrevious bool) report.Report {
	state := report.Analyze(transcript)

	rs.mu.Lock()
	recommendations := report.Recommend(state, rs.rng)
	rs.mu.Unlock()

	return report.Report{
		Success:            true,
		Date:               date,
		SessionCount:       chatCount,
		ThreeLineSummary:   report.Summary(state),
		ProfessionalReport: rs.professionalReport(ctx, state, transcript, chatCount),
		PsychologicalState: state,
		ComparisonAnalysis: report.Compare(state, hasPrevious),
		Recommendations:    recommendations,
		FeedbackChecklist:  report.FeedbackChecklist(),
		ChecklistLink:      report.ChecklistLink(date),
		GeneratedAt:        rs.now().Format(time.RFC3339),
	}
}

// professionalReport asks the model for the narrative and falls back to
// the deterministic body on any failure or empty output.
func (rs *reportService) professionalReport(ctx context.Context, state report.PsychologicalState, transcript string, chatCount int) string {
	if rs.llmProvider == nil {
		return report.FallbackReport(state, chatCount)
	}

	prompt := report.Prompt(state, transcript, chatCount)
	raw, err := rs.llmProvider.Generate(ctx, prompt, reportOptions()...)
	if err != nil {
		rs.logger.Error("ReportService", "Report generation failed, using fallback body", map[string]interface{}{
			"error": err.Error(),
		})
		return report.FallbackReport(state, chatCount)
	}

	body := report.CleanReport(report.ExtractReport(raw, prompt))
	if body == "" {
		rs.logger.Warn("ReportService", "Model returned an empty report, using fallback body", nil)
		return report.FallbackReport(state, chatCount)
	}
	return body
}

// transcript prefers the external history service and falls back to the archive.
func (rs *reportService) transcript(ctx context.Context, date string) (chathistory.Transcript, error) {
	if rs.external != nil {
		tr, err := rs.external.Fetch(ctx, date)
		if err == nil {
			return tr, nil
		}
		rs.logger.Warn("ReportService", "External chat history unavailable, using archive", map[string]interface{}{
			"date":  date,
			"error": err.Error(),
		})
	}

	turns, err := rs.archive.FindAll(ctx, entity.TurnFilter{Date: date})
	if err != nil {
		return chathistory.Transcript{}, fmt.Errorf("load archived turns for %s: %w", date, err)
	}

	entries := make([]chathistory.Entry, 0, len(turns))
	for _, t := range turns {
		entries = append(entries, chathistory.Entry{UserMessage: t.UserMessage, AssistantReply: t.AssistantReply})
	}
	return chathistory.Render(entries), nil
}

func (rs *reportService) hasPreviousDay(ctx context.Context, date string) (bool, error) {
	day, err := time.ParseInLocation(time.DateOnly, date, time.Local)
	if err != nil {
		return false, nil
	}
	prev := day.AddDate(0, 0, -1).Format(time.DateOnly)

	count, err := rs.archive.Count(ctx, entity.TurnFilter{Date: prev})
	if err != nil {
		return false, fmt.Errorf("count archived turns for %s: %w", prev, err)
	}
	return count > 0, nil
}

func (rs *reportService) dateOrToday(date string) string {
	if d := strings.TrimSpace(date); d != "" {
		return d
	}
	return rs.now().Format(time.DateOnly)
}

func (rs *reportService) Checklist(ctx context.Context) *dto.ChecklistResponse {
	return &dto.ChecklistResponse{
		Checklist:      report.FeedbackChecklist(),
		Instructions:   report.ChecklistInstructions,
		CompletionTime: report.ChecklistCompletionTime,
	}
}

func (rs *reportService) Health(ctx context.Context) *dto.ReportHealthResponse {
	return &dto.ReportHealthResponse{
		Status:      "healthy",
		Service:     ReportServiceName,
		Version:     report.VersionIndexCompatible,
		ModelLoaded: rs.llmProvider != nil,
		Endpoints:   append([]string{}, reportEndpoints...),
	}
}

// isPresent treats null, "", false, 0 and empty collections as absent.
func isPresent(v interface{}) bool {
	switch x := v.(type) {
	case nil:
		return false
	case string:
		return x != ""
	case bool:
		return x
	case float64:
		return x != 0
	case []interface{}:
		return len(x) > 0
	case map[string]interface{}:
		return len(x) > 0
	default:
		return true
	}
}
