// Package shared holds helpers used by more than one package that belong to
// no single layer.
//
// The testutil subpackage provides a capturing slog handler and calendar and
// quote fixtures for tests:
//
//	logger, logs := testutil.NewTestLogger(t)
//	svc := services.NewCalendarService(store, templates, logger)
//	testutil.AssertLogContains(t, logs, slog.LevelInfo, "Calendar data received")
package shared
