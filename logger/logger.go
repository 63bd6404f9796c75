// Package logger declares the structured-logging interface every
// subsystem logs through and the package-level loggers wired by
// logger/zap.Init, grounded on the teacher's logger/logger.go.
package logger

import (
	"go.uber.org/zap"
	gorml "gorm.io/gorm/logger"
)

// Logger is the structured logger contract every package in this module
// depends on, never on *zap.Logger directly — mirrors the teacher's
// types.Logger.
type Logger interface {
	Debug(args ...any)
	Info(args ...any)
	Warn(args ...any)
	Error(args ...any)
	Fatal(args ...any)

	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
	Fatalf(format string, args ...any)

	Debugw(msg string, keysValues ...any)
	Infow(msg string, keysValues ...any)
	Warnw(msg string, keysValues ...any)
	Errorw(msg string, keysValues ...any)
	Fatalw(msg string, keysValues ...any)

	Debugz(msg string, fields ...zap.Field)
	Infoz(msg string, fields ...zap.Field)
	Warnz(msg string, fields ...zap.Field)
	Errorz(msg string, fields ...zap.Field)
	Fatalz(msg string, fields ...zap.Field)

	// With returns a derived logger carrying additional key/value pairs,
	// e.g. WithMethod fields (rpc method name, session id, principal id).
	With(fields ...string) Logger
	ZapLogger() *zap.Logger
}

// Package-level loggers, one per subsystem, wired by logger/zap.Init.
// Grounded on the teacher's logger.Controller/Service/Database split,
// renamed to this module's components (SPEC_FULL.md §2 items 1-9 plus
// the ambient layers in item 10-14).
var (
	Dispatch   Logger // rpc package: per-method dispatch logging
	Capability Logger // capability package: gate decisions
	IAM        Logger // iam package: auth flows
	Store      Logger // store package: reference engine
	GraphQL    Logger // gqladapter package
	Live       Logger // live-query coordinator
	Transport  Logger // transport/* packages

	Gorm gorml.Interface
)
