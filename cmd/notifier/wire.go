package main

import (
	"context"
	"fmt"

	"contract_expiry_notifier/internal/app"
	"contract_expiry_notifier/internal/domain/alert"
	"contract_expiry_notifier/internal/domain/contract"
	"contract_expiry_notifier/internal/infra/config"
	idb "contract_expiry_notifier/internal/infra/database"
	"contract_expiry_notifier/internal/infra/mail"
	"contract_expiry_notifier/internal/infra/sheets"
	"contract_expiry_notifier/internal/infra/telegram"
	"contract_expiry_notifier/internal/infra/xlsx"

	"github.com/sirupsen/logrus"
)

// buildService wires the table reader, the alert sender and the body
// template selected by cfg. cleanup releases the reader's resources.
func buildService(ctx context.Context, cfg *config.AppConfig, log *logrus.Logger) (*app.ExpiryServiceImpl, func(), error) {
	reader, cleanup, err := buildReader(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}

	sender, err := buildSender(ctx, cfg, log)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	body, err := app.NewBodyRendererFromFile(cfg.BodyTemplatePath)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	svc := app.NewExpiryServiceImpl(reader, sender, body, log, cfg.Block, cfg.Layout, cfg.Recipient)
	return svc, cleanup, nil
}

func buildReader(ctx context.Context, cfg *config.AppConfig, log *logrus.Logger) (contract.TableReader, func(), error) {
	noop := func() {}

	switch cfg.Source {
	case config.SourceSheets:
		creds, err := cfg.Google.Credentials()
		if err != nil {
			return nil, nil, err
		}
		r, err := sheets.NewReader(ctx, creds, cfg.Google.SpreadsheetID, log)
		if err != nil {
			return nil, nil, err
		}
		log.Info("Google Sheets reader initialized.")
		return r, noop, nil
	case config.SourceXLSX:
		log.Infof("Workbook reader initialized for %s.", cfg.XLSXPath)
		return xlsx.NewReader(cfg.XLSXPath, log), noop, nil
	case config.SourcePostgres:
		db, err := idb.NewPostgresConnection(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("could not connect to database: %w", err)
		}
		log.Info("Database connection established successfully.")
		return idb.NewPostgresContractRepository(db), func() { db.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown TABLE_SOURCE %q", cfg.Source)
	}
}

// buildSender returns the configured transport wrapped in the retry policy.
func buildSender(ctx context.Context, cfg *config.AppConfig, log *logrus.Logger) (alert.Sender, error) {
	var sender alert.Sender

	switch cfg.Transport {
	case config.TransportSMTP:
		sender = mail.NewSMTPSender(cfg.SMTP, log)
	case config.TransportGmail:
		creds, err := cfg.Google.Credentials()
		if err != nil {
			return nil, err
		}
		g, err := mail.NewGmailSender(ctx, creds, cfg.SMTP.SenderAddress, cfg.SMTP.SenderName)
		if err != nil {
			return nil, err
		}
		sender = g
	case config.TransportTelegram:
		bot, err := telegram.NewOfflineBot(cfg.TelegramToken)
		if err != nil {
			return nil, err
		}
		sender = telegram.NewAlertSender(telegram.NewTelebotAdapter(bot))
	case config.TransportLog:
		sender = mail.NewLogSender(log)
	default:
		return nil, fmt.Errorf("unknown MAIL_TRANSPORT %q", cfg.Transport)
	}
	log.Infof("Alert transport %q initialized.", cfg.Transport)

	return mail.NewRetryingSender(sender, cfg.RetryCount, cfg.RetryBackoffMs, log), nil
}
