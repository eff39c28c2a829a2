package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/pustaka-activity-api/internal/activitylog"
	"github.com/noah-isme/pustaka-activity-api/internal/dto"
	"github.com/noah-isme/pustaka-activity-api/internal/export"
	"github.com/noah-isme/pustaka-activity-api/internal/observability"
	"github.com/noah-isme/pustaka-activity-api/internal/repository"
)

const (
	reportSnapshotPrefix = "pustaka:report:"

	// CSVExportMessage confirms a spreadsheet download.
	CSVExportMessage = "Laporan Excel (.csv) berhasil diunduh."
	// PrintableExportMessage confirms the printable report is ready.
	PrintableExportMessage = "Laporan PDF siap. Gunakan Print / Save as PDF di jendela baru."
	// RefreshMessage confirms a snapshot refresh.
	RefreshMessage = "Data disegarkan (demo)."
)

var (
	// ErrActivityNotFound is returned when the requested record does not exist.
	ErrActivityNotFound = errors.New("activity not found")
	// ErrInvalidReportQuery wraps malformed enumerated query values.
	ErrInvalidReportQuery = errors.New("invalid report query")
)

// ActivityReportService builds the activity log dashboard and its exports.
type ActivityReportService interface {
	Report(ctx context.Context, query dto.ActivityReportQuery) (dto.ActivityReportResponse, error)
	Detail(ctx context.Context, id string) (dto.ActivityRecordResponse, error)
	ExportCSV(ctx context.Context, query dto.ActivityReportQuery) (dto.ActivityExport, error)
	ExportReport(ctx context.Context, query dto.ActivityReportQuery, surface export.Surface) (dto.ActivityExport, bool, error)
	Refresh(ctx context.Context) error
}

type activityReportService struct {
	repo        repository.ActivityRecordRepository
	cache       *redis.Client
	snapshotTTL time.Duration
	location    *time.Location
	notifier    Notifier
	logger      zerolog.Logger
	tracer      trace.Tracer
	now         func() time.Time
}

type reportSnapshot struct {
	Response dto.ActivityReportResponse `json:"response"`
}

// NewActivityReportService constructs the report service. The cache and
// notifier are optional; a nil clock defaults to time.Now in the location.
func NewActivityReportService(
	repo repository.ActivityRecordRepository,
	cache *redis.Client,
	snapshotTTL time.Duration,
	location *time.Location,
	notifier Notifier,
	clock func() time.Time,
	logger zerolog.Logger,
) ActivityReportService {
	if location == nil {
		location = time.UTC
	}
	if clock == nil {
		clock = func() time.Time { return time.Now().In(location) }
	}

	return &activityReportService{
		repo:        repo,
		cache:       cache,
		snapshotTTL: snapshotTTL,
		location:    location,
		notifier:    notifier,
		logger:      logger.With().Str("component", "activity_report_service").Logger(),
		tracer:      otel.Tracer("github.com/noah-isme/pustaka-activity-api/internal/service/activity_report"),
		now:         clock,
	}
}

func (s *activityReportService) Report(ctx context.Context, query dto.ActivityReportQuery) (dto.ActivityReportResponse, error) {
	ctx, span := s.tracer.Start(ctx, "activity_report.build")
	defer span.End()

	session, err := s.sessionFromQuery(query)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid_query")
		return dto.ActivityReportResponse{}, err
	}

	now := s.now()
	key := snapshotKey(session, now)
	span.SetAttributes(attribute.String("activity_report.cache_key", key))

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, key).Result()
		if err == nil {
			var snapshot reportSnapshot
			if unmarshalErr := json.Unmarshal([]byte(cached), &snapshot); unmarshalErr == nil {
				response := snapshot.Response
				response.CacheHit = true
				response.SnapshotAgeSec = snapshotAge(response.GeneratedAt, now)
				span.SetAttributes(attribute.Bool("activity_report.cache_hit", true))
				observability.ReportSnapshots().WithLabelValues("hit").Inc()
				return response, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn().Err(err).Msg("failed to read report snapshot")
			span.RecordError(err)
			observability.ReportSnapshots().WithLabelValues("error").Inc()
		}
	}

	result, err := s.run(ctx, session, now)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "build_failed")
		return dto.ActivityReportResponse{}, err
	}

	response := buildReportResponse(result, session, now)
	span.SetAttributes(
		attribute.Int("activity_report.filtered", len(result.Filtered)),
		attribute.Int("activity_report.page", result.Page.Page),
	)
	observability.ReportSnapshots().WithLabelValues("miss").Inc()

	if s.cache != nil && s.snapshotTTL > 0 {
		payload, err := json.Marshal(reportSnapshot{Response: response})
		if err == nil {
			if err := s.cache.Set(ctx, key, payload, s.snapshotTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store report snapshot")
				span.RecordError(err)
			}
		}
	}

	return response, nil
}

func (s *activityReportService) Detail(ctx context.Context, id string) (dto.ActivityRecordResponse, error) {
	ctx, span := s.tracer.Start(ctx, "activity_report.detail")
	span.SetAttributes(attribute.String("activity.id", id))
	defer span.End()

	row, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return dto.ActivityRecordResponse{}, ErrActivityNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "lookup_failed")
		return dto.ActivityRecordResponse{}, fmt.Errorf("load activity record: %w", err)
	}

	record := row.ToRecord()
	record.Timestamp = record.Timestamp.In(s.location)
	return dto.NewActivityRecordResponse(record), nil
}

func (s *activityReportService) ExportCSV(ctx context.Context, query dto.ActivityReportQuery) (dto.ActivityExport, error) {
	ctx, span := s.tracer.Start(ctx, "activity_report.export_csv")
	defer span.End()

	view, err := s.exportView(ctx, query)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "export_failed")
		observability.ReportExports().WithLabelValues("csv", "error").Inc()
		return dto.ActivityExport{}, err
	}

	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, view); err != nil {
		span.RecordError(err)
		observability.ReportExports().WithLabelValues("csv", "error").Inc()
		return dto.ActivityExport{}, fmt.Errorf("write csv export: %w", err)
	}

	span.SetAttributes(attribute.Int("activity_report.rows", len(view)))
	observability.ReportExports().WithLabelValues("csv", "delivered").Inc()
	s.notify(ctx, dto.NotificationTypeExport, CSVExportMessage)

	return dto.ActivityExport{
		FileName:    export.CSVFileName,
		ContentType: export.CSVContentType,
		Body:        buf.Bytes(),
		Rows:        len(view),
	}, nil
}

// ExportReport renders the printable report into surface. A nil surface
// renders into the Body of the returned export instead.
func (s *activityReportService) ExportReport(ctx context.Context, query dto.ActivityReportQuery, surface export.Surface) (dto.ActivityExport, bool, error) {
	ctx, span := s.tracer.Start(ctx, "activity_report.export_report")
	defer span.End()

	view, err := s.exportView(ctx, query)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "export_failed")
		observability.ReportExports().WithLabelValues("report", "error").Inc()
		return dto.ActivityExport{}, false, err
	}

	var buf *bytes.Buffer
	if surface == nil {
		buf = &bytes.Buffer{}
		surface = export.WriterSurface(buf)
	}

	delivered, err := export.PrintReport(surface, view)
	if err != nil {
		span.RecordError(err)
		observability.ReportExports().WithLabelValues("report", "error").Inc()
		return dto.ActivityExport{}, false, err
	}
	if !delivered {
		s.logger.Info().Msg("printable report surface unavailable")
		observability.ReportExports().WithLabelValues("report", "blocked").Inc()
		return dto.ActivityExport{}, false, nil
	}

	span.SetAttributes(attribute.Int("activity_report.rows", len(view)))
	observability.ReportExports().WithLabelValues("report", "delivered").Inc()
	s.notify(ctx, dto.NotificationTypeExport, PrintableExportMessage)

	file := dto.ActivityExport{
		ContentType: export.ReportContentType,
		Rows:        len(view),
	}
	if buf != nil {
		file.Body = buf.Bytes()
	}
	return file, true, nil
}

func (s *activityReportService) Refresh(ctx context.Context) error {
	ctx, span := s.tracer.Start(ctx, "activity_report.refresh")
	defer span.End()

	if s.cache != nil {
		if err := s.dropSnapshots(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("failed to drop report snapshots")
			span.RecordError(err)
		}
	}

	s.notify(ctx, dto.NotificationTypeRefresh, RefreshMessage)
	return nil
}

func (s *activityReportService) dropSnapshots(ctx context.Context) error {
	iter := s.cache.Scan(ctx, 0, reportSnapshotPrefix+"*", 100).Iterator()
	keys := make([]string, 0)
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return s.cache.Del(ctx, keys...).Err()
}

func (s *activityReportService) exportView(ctx context.Context, query dto.ActivityReportQuery) ([]activitylog.Record, error) {
	session, err := s.sessionFromQuery(query)
	if err != nil {
		return nil, err
	}
	result, err := s.run(ctx, session, s.now())
	if err != nil {
		return nil, err
	}
	return result.Sorted, nil
}

func (s *activityReportService) run(ctx context.Context, session *activitylog.Session, now time.Time) (activitylog.Result, error) {
	started := time.Now()
	defer func() {
		observability.ReportBuildLatency().Observe(time.Since(started).Seconds())
	}()

	records, err := s.loadRecords(ctx)
	if err != nil {
		return activitylog.Result{}, err
	}
	return activitylog.Run(records, session, now), nil
}

func (s *activityReportService) loadRecords(ctx context.Context) ([]activitylog.Record, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load activity records: %w", err)
	}

	records := make([]activitylog.Record, 0, len(rows))
	for _, row := range rows {
		record := row.ToRecord()
		record.Timestamp = record.Timestamp.In(s.location)
		records = append(records, record)
	}
	return records, nil
}

func (s *activityReportService) notify(ctx context.Context, notificationType, message string) {
	if s.notifier == nil {
		return
	}
	if _, err := s.notifier.Notify(ctx, notificationType, message); err != nil {
		s.logger.Warn().Err(err).Str("type", notificationType).Msg("failed to send notification")
	}
}

// sessionFromQuery rebuilds the viewer session carried by the query string.
func (s *activityReportService) sessionFromQuery(query dto.ActivityReportQuery) (*activitylog.Session, error) {
	session := activitylog.NewSession()

	period, err := activitylog.ParsePeriod(query.Period)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidReportQuery, err)
	}
	session.SetPeriod(period)
	if period == activitylog.PeriodCustom {
		session.Criteria.RangeStart = strings.TrimSpace(query.Start)
		session.Criteria.RangeEnd = strings.TrimSpace(query.End)
	}

	if query.KindsProvided {
		kinds := activitylog.NewKindSet()
		for _, raw := range strings.Split(query.Kinds, ",") {
			if strings.TrimSpace(raw) == "" {
				continue
			}
			kind, err := activitylog.ParseKind(raw)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidReportQuery, err)
			}
			kinds[kind] = struct{}{}
		}
		session.Criteria.Kinds = kinds
	}

	session.Criteria.ActorQuery = strings.TrimSpace(query.User)
	session.Criteria.BookQuery = strings.TrimSpace(query.Book)

	if query.Sort != "" {
		column, err := activitylog.ParseColumn(query.Sort)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidReportQuery, err)
		}
		session.Sort = activitylog.SortSpec{Column: column, Direction: activitylog.DefaultDirection(column)}
	}
	if query.Direction != "" {
		direction, err := activitylog.ParseDirection(query.Direction)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidReportQuery, err)
		}
		session.Sort.Direction = direction
	}
	if query.Toggle != "" {
		column, err := activitylog.ParseColumn(query.Toggle)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidReportQuery, err)
		}
		session.ToggleSort(column)
	}

	if query.Page != 0 {
		session.SetPage(query.Page)
	}

	return session, nil
}

func buildReportResponse(result activitylog.Result, session *activitylog.Session, now time.Time) dto.ActivityReportResponse {
	kinds := make([]string, 0, len(session.Criteria.Kinds))
	for _, kind := range session.Criteria.Kinds.Sorted() {
		kinds = append(kinds, string(kind))
	}

	filters := dto.ActivityFiltersResponse{
		Period: string(session.Criteria.Period),
		Kinds:  kinds,
		User:   session.Criteria.ActorQuery,
		Book:   session.Criteria.BookQuery,
	}
	if session.Criteria.Period == activitylog.PeriodCustom {
		filters.Start = session.Criteria.RangeStart
		filters.End = session.Criteria.RangeEnd
	}

	response := dto.ActivityReportResponse{
		Items: dto.NewActivityRecordResponseSlice(result.Page.Items),
		Pagination: dto.PaginationMeta{
			Page:       result.Page.Page,
			PageSize:   activitylog.PageSize,
			TotalItems: int64(result.Page.TotalItems),
			TotalPages: result.Page.TotalPages,
		},
		Empty:        len(result.Page.Items) == 0,
		TopBooks:     nonNilRanks(result.TopBooks),
		TopBorrowers: nonNilRanks(result.TopBorrowers),
		Counts:       result.Counts,
		Sort:         session.Sort,
		Filters:      filters,
		GeneratedAt:  now,
	}
	if response.Empty {
		response.EmptyMessage = dto.EmptyActivityMessage
	}
	return response
}

func nonNilRanks(ranks []activitylog.Rank) []activitylog.Rank {
	if ranks == nil {
		return []activitylog.Rank{}
	}
	return ranks
}

// snapshotKey hashes the normalized session so equivalent queries share a
// snapshot. Rolling periods also key on the current minute so the window
// follows the clock.
func snapshotKey(session *activitylog.Session, now time.Time) string {
	kinds := make([]string, 0, len(session.Criteria.Kinds))
	for _, kind := range session.Criteria.Kinds.Sorted() {
		kinds = append(kinds, string(kind))
	}

	parts := []string{
		string(session.Criteria.Period),
		session.Criteria.RangeStart,
		session.Criteria.RangeEnd,
		strings.Join(kinds, ","),
		strings.ToLower(session.Criteria.ActorQuery),
		strings.ToLower(session.Criteria.BookQuery),
		string(session.Sort.Column),
		string(session.Sort.Direction),
		fmt.Sprintf("%d", session.Page),
	}
	switch session.Criteria.Period {
	case activitylog.PeriodLast7Days, activitylog.PeriodLast30Days:
		parts = append(parts, now.UTC().Truncate(time.Minute).Format(time.RFC3339))
	}

	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return reportSnapshotPrefix + hex.EncodeToString(sum[:8])
}

func snapshotAge(generatedAt, now time.Time) int64 {
	if generatedAt.IsZero() || now.Before(generatedAt) {
		return 0
	}
	return int64(now.Sub(generatedAt) / time.Second)
}
