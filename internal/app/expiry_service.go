// internal/app/expiry_service.go
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"contract_expiry_notifier/internal/domain/alert"
	"contract_expiry_notifier/internal/domain/contract"
	"contract_expiry_notifier/internal/infra/metrics"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ExpiryService scans the contract table and raises expiry alerts.
type ExpiryService interface {
	// ScanAndNotify reads the configured block once, compares every row's
	// expiry date with the targets derived from now and sends one alert per
	// match. Only a failure to read the table is returned as an error.
	ScanAndNotify(ctx context.Context, now time.Time) (*RunReport, error)
}

// RunReport summarises a single scan.
type RunReport struct {
	RunID         string
	Today         contract.CalendarDate
	Targets       contract.Targets
	RowsScanned   int
	EmptyRows     int
	MalformedRows int
	AlertsSent    int
	AlertsFailed  int
	Failures      []*alert.DispatchError
}

// ExpiryServiceImpl implements ExpiryService.
type ExpiryServiceImpl struct {
	reader    contract.TableReader
	sender    alert.Sender
	body      *BodyRenderer
	logger    *logrus.Logger
	block     contract.Block
	layout    contract.Layout
	recipient string
	newRunID  func() string
}

func NewExpiryServiceImpl(
	reader contract.TableReader,
	sender alert.Sender,
	body *BodyRenderer,
	logger *logrus.Logger,
	block contract.Block,
	layout contract.Layout,
	recipient string,
) *ExpiryServiceImpl {
	return &ExpiryServiceImpl{
		reader:    reader,
		sender:    sender,
		body:      body,
		logger:    logger,
		block:     block,
		layout:    layout,
		recipient: recipient,
		newRunID:  uuid.NewString,
	}
}

func (s *ExpiryServiceImpl) ScanAndNotify(ctx context.Context, now time.Time) (*RunReport, error) {
	report := &RunReport{
		RunID:   s.newRunID(),
		Today:   contract.DateOf(now),
		Targets: contract.ComputeTargets(now),
	}
	log := s.logger.WithField("run_id", report.RunID)
	log.WithFields(logrus.Fields{
		"today":     report.Today.String(),
		"two_weeks": report.Targets.TwoWeeks.String(),
		"one_month": report.Targets.OneMonth.String(),
		"block":     s.block.String(),
	}).Info("Starting contract expiry scan")

	rows, err := s.reader.ReadRows(ctx, s.block)
	if err != nil {
		metrics.ScanRuns.WithLabelValues(metrics.OutcomeFailed).Inc()
		err = contract.NewMissingDataError(s.block, err)
		log.WithError(err).Error("Could not read contract rows, aborting scan")
		return report, fmt.Errorf("failed to read contract rows: %w", err)
	}

	for i, row := range rows {
		s.processRow(ctx, log, report, s.block.RowNumber(i), row, now.Location())
	}
	report.RowsScanned = len(rows)
	metrics.RowsScanned.Add(float64(len(rows)))
	metrics.ScanRuns.WithLabelValues(metrics.OutcomeSucceeded).Inc()

	log.WithFields(logrus.Fields{
		"rows":      report.RowsScanned,
		"sent":      report.AlertsSent,
		"failed":    report.AlertsFailed,
		"malformed": report.MalformedRows,
		"empty":     report.EmptyRows,
	}).Info("Contract expiry scan finished")
	return report, nil
}

func (s *ExpiryServiceImpl) processRow(ctx context.Context, log *logrus.Entry, report *RunReport, rowNumber int, row contract.Row, loc *time.Location) {
	rowLog := log.WithField("row", rowNumber)
	status := s.layout.Status(row)
	address := s.layout.Address(row)

	expiry, err := contract.ParseExpiry(s.layout.Expiry(row), loc)
	if err != nil {
		if errors.Is(err, contract.ErrEmptyExpiry) {
			report.EmptyRows++
			rowLog.Debug("No expiry date in row, skipping")
			return
		}
		report.MalformedRows++
		metrics.MalformedDates.Inc()
		rowLog.WithError(err).Warn("Skipping row with malformed expiry date")
		return
	}

	rowLog.Debugf("Two-week target month %d, expiry month %d", report.Targets.TwoWeeks.Month, expiry.Month)

	if expiry.Equal(report.Targets.TwoWeeks) {
		s.dispatch(ctx, rowLog, report, alert.KindResponseCheck, rowNumber, status, address, expiry)
	}
	if expiry.Equal(report.Targets.OneMonth) {
		s.dispatch(ctx, rowLog, report, alert.KindContractEnding, rowNumber, status, address, expiry)
	}
}

func (s *ExpiryServiceImpl) dispatch(ctx context.Context, log *logrus.Entry, report *RunReport, kind alert.Kind, rowNumber int, status, address string, expiry contract.CalendarDate) {
	a := alert.Alert{
		Kind:      kind,
		To:        s.recipient,
		Subject:   alert.Subject(kind, status, address),
		RowNumber: rowNumber,
	}
	if s.body != nil {
		body, err := s.body.Render(BodyParams{
			Kind:      kind,
			Status:    status,
			Address:   address,
			Expiry:    expiry.Time(time.UTC),
			RowNumber: rowNumber,
			Sheet:     s.block.SheetName,
		})
		if err != nil {
			log.WithError(err).Warn("Sending alert without body")
		}
		a.Body = body
	}

	fields := logrus.Fields{"kind": kind, "to": a.To, "subject": a.Subject}
	if err := s.sender.Send(ctx, a); err != nil {
		dispatchErr := &alert.DispatchError{Alert: a, Err: err}
		report.AlertsFailed++
		report.Failures = append(report.Failures, dispatchErr)
		metrics.AlertsFailed.WithLabelValues(string(kind)).Inc()
		log.WithFields(fields).WithError(err).Error("Failed to send expiry alert, resend manually")
		return
	}
	report.AlertsSent++
	metrics.AlertsSent.WithLabelValues(string(kind)).Inc()
	log.WithFields(fields).Info("Expiry alert sent")
}
