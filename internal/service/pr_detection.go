package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/multierr"

	"github.com/mansoorceksport/liftlog/internal/domain"
	"github.com/mansoorceksport/liftlog/internal/exercisetype"
	"github.com/mansoorceksport/liftlog/internal/metrics"
	"github.com/mansoorceksport/liftlog/internal/telemetry"
)

const defaultDetectionRetries = 3

var tracer = otel.Tracer("liftlog-service")

// PRDetectionService compares a performance against the current records of
// its exercise and appends a new record for every category it beats.
type PRDetectionService struct {
	registry   *exercisetype.Registry
	records    domain.PersonalRecordRepository
	audits     domain.DetectionAuditRepository
	locker     domain.Locker
	metrics    *metrics.Manager
	maxRetries int
}

func NewPRDetectionService(
	registry *exercisetype.Registry,
	records domain.PersonalRecordRepository,
	audits domain.DetectionAuditRepository,
	locker domain.Locker,
	metricsManager *metrics.Manager,
	maxRetries int,
) *PRDetectionService {
	if maxRetries <= 0 {
		maxRetries = defaultDetectionRetries
	}
	return &PRDetectionService{
		registry:   registry,
		records:    records,
		audits:     audits,
		locker:     locker,
		metrics:    metricsManager,
		maxRetries: maxRetries,
	}
}

// generateULID creates a new ULID string
func generateULID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
}

// Detect runs detection for one performance. Running it again on unchanged
// content is a no-op.
func (s *PRDetectionService) Detect(ctx context.Context, exercise *domain.Exercise, liftLog *domain.LiftLog, trigger string) (result *domain.DetectionResult, err error) {
	ctx, span := tracer.Start(ctx, "prdetection.detect")
	span.SetAttributes(
		attribute.String("user.id", liftLog.UserID),
		attribute.String("exercise.id", liftLog.ExerciseID),
		attribute.String("lift_log.id", liftLog.ID),
		attribute.String("trigger", trigger),
	)
	start := time.Now()
	defer func() {
		telemetry.EndSpanWithErrCheck(span, err)
		s.observe(trigger, result, err, start)
	}()

	st := s.registry.ResolveSafe(exercise)
	snapshot := st.CurrentMetrics(liftLog)
	fingerprint := Fingerprint(liftLog)

	unlock, err := s.locker.Lock(ctx, liftLog.UserID+":"+liftLog.ExerciseID)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire detection lock: %w", err)
	}
	defer func() {
		if uerr := unlock(); uerr != nil {
			log.WithError(uerr).WithField("lift_log_id", liftLog.ID).Warn("failed to release detection lock")
		}
	}()

	result = &domain.DetectionResult{RunID: generateULID()}

	seen, err := s.audits.ExistsForFingerprint(ctx, liftLog.ID, fingerprint)
	if err != nil {
		return nil, fmt.Errorf("failed to check detection audit: %w", err)
	}
	if seen {
		result.Skipped = true
		log.WithFields(log.Fields{"lift_log_id": liftLog.ID, "trigger": trigger}).Debug("performance already processed, skipping detection")
		return result, nil
	}

	for _, c := range exercisetype.Candidates(st, snapshot) {
		rec, err := s.apply(ctx, st, liftLog, c)
		if err != nil {
			return nil, err
		}
		if rec != nil {
			result.Created = append(result.Created, rec)
		}
	}

	audit := &domain.DetectionAudit{
		RunID:        result.RunID,
		UserID:       liftLog.UserID,
		ExerciseID:   liftLog.ExerciseID,
		ExerciseType: st.Type(),
		LiftLogID:    liftLog.ID,
		Trigger:      trigger,
		Fingerprint:  fingerprint,
		Snapshot:     snapshot,
		NewPRTypes:   result.NewPRTypes(),
		RecordIDs:    make([]string, 0, len(result.Created)),
	}
	for _, rec := range result.Created {
		audit.RecordIDs = append(audit.RecordIDs, rec.ID)
	}
	if err := s.audits.Create(ctx, audit); err != nil {
		return nil, fmt.Errorf("failed to write detection audit: %w", err)
	}

	return result, nil
}

// apply settles one candidate, returning the new record or nil when the
// current record stands.
func (s *PRDetectionService) apply(ctx context.Context, st exercisetype.Strategy, liftLog *domain.LiftLog, c exercisetype.Candidate) (*domain.PersonalRecord, error) {
	key := c.Key(liftLog.UserID, liftLog.ExerciseID)

	for attempt := 1; ; attempt++ {
		current, err := s.records.GetCurrent(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("failed to load current %s record: %w", c.PRType, err)
		}
		if current != nil && !st.Improves(c.PRType, c.Value, current.Value) {
			return nil, nil
		}

		rec := &domain.PersonalRecord{
			UserID:        liftLog.UserID,
			ExerciseID:    liftLog.ExerciseID,
			PRType:        c.PRType,
			Discriminator: c.Discriminator,
			Value:         c.Value,
			AchievedAt:    liftLog.LoggedAt,
			LiftLogID:     liftLog.ID,
		}
		if current != nil {
			prev := current.Value
			rec.PreviousRecordID = current.ID
			rec.PreviousValue = &prev
		}

		err = s.records.Supersede(ctx, rec, current)
		if err == nil {
			if s.metrics != nil {
				s.metrics.CounterRecordsCreated.WithLabelValues(string(c.PRType)).Inc()
			}
			return rec, nil
		}
		if !errors.Is(err, domain.ErrRecordConflict) {
			return nil, fmt.Errorf("failed to store %s record: %w", c.PRType, err)
		}

		if s.metrics != nil {
			s.metrics.CounterRecordConflicts.Inc()
		}
		if attempt >= s.maxRetries {
			return nil, fmt.Errorf("gave up on %s after %d attempts: %w", key, attempt, err)
		}
		log.WithFields(log.Fields{"key": key.String(), "attempt": attempt}).Warn("record head moved, retrying")
	}
}

func (s *PRDetectionService) observe(trigger string, result *domain.DetectionResult, err error, start time.Time) {
	if s.metrics == nil {
		return
	}
	outcome := metrics.OutcomeNoRecords
	switch {
	case err != nil:
		outcome = metrics.OutcomeError
	case result.Skipped:
		outcome = metrics.OutcomeSkipped
	case len(result.Created) > 0:
		outcome = metrics.OutcomeRecords
	}
	s.metrics.CounterDetectionRuns.WithLabelValues(trigger, outcome).Inc()
	s.metrics.HistDetectionDuration.Observe(time.Since(start).Seconds())
}

// Replay runs detection over logs in the given order. A failing log does not
// stop the others; every failure is returned combined.
func (s *PRDetectionService) Replay(ctx context.Context, exercise *domain.Exercise, logs []*domain.LiftLog) ([]*domain.DetectionResult, error) {
	var (
		results []*domain.DetectionResult
		errs    error
	)
	for _, l := range logs {
		if err := ctx.Err(); err != nil {
			return results, multierr.Append(errs, err)
		}
		res, err := s.Detect(ctx, exercise, l, domain.TriggerReplay)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("lift log %s: %w", l.ID, err))
			continue
		}
		results = append(results, res)
	}
	return results, errs
}

// Fingerprint hashes the parts of a performance that influence detection:
// the log id and every set value. Notes and dates are left out.
func Fingerprint(liftLog *domain.LiftLog) string {
	var b strings.Builder
	b.WriteString(liftLog.ID)
	for _, set := range liftLog.Sets {
		b.WriteByte('\n')
		b.WriteString(strconv.Itoa(set.SetIndex))
		b.WriteByte('|')
		writeOptionalFloat(&b, set.Weight)
		b.WriteByte('|')
		if set.Reps != nil {
			b.WriteString(strconv.Itoa(*set.Reps))
		}
		b.WriteByte('|')
		writeOptionalFloat(&b, set.HoldSeconds)
		b.WriteByte('|')
		b.WriteString(strings.ToLower(set.BandColorValue()))
	}
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

func writeOptionalFloat(b *strings.Builder, v *float64) {
	if v != nil {
		b.WriteString(strconv.FormatFloat(*v, 'f', -1, 64))
	}
}
