package logger

import (
	"go.uber.org/zap"
)

// Logger es la interfaz de logging usada por todos los componentes
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// ZapLogger implementa Logger sobre zap.SugaredLogger
type ZapLogger struct {
	sugar *zap.SugaredLogger
}

// NewLogger crea una nueva instancia de Logger para producción
func NewLogger() Logger {
	z, err := zap.NewProduction()
	if err != nil {
		z = zap.NewNop()
	}
	return &ZapLogger{sugar: z.Sugar()}
}

// NewDevelopmentLogger crea un Logger con salida legible para desarrollo
func NewDevelopmentLogger() Logger {
	z, err := zap.NewDevelopment()
	if err != nil {
		z = zap.NewNop()
	}
	return &ZapLogger{sugar: z.Sugar()}
}

// FromZap envuelve un *zap.Logger existente
func FromZap(z *zap.Logger) Logger {
	return &ZapLogger{sugar: z.Sugar()}
}

// Info registra un mensaje de información
func (l *ZapLogger) Info(msg string, keysAndValues ...interface{}) {
	l.sugar.Infow(msg, keysAndValues...)
}

// Error registra un mensaje de error
func (l *ZapLogger) Error(msg string, keysAndValues ...interface{}) {
	l.sugar.Errorw(msg, keysAndValues...)
}

// Debug registra un mensaje de debug
func (l *ZapLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.sugar.Debugw(msg, keysAndValues...)
}

// Warn registra un mensaje de advertencia
func (l *ZapLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.sugar.Warnw(msg, keysAndValues...)
}
