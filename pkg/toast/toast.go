// Package toast delivers short, transient user-facing messages. Delivery is
// fire-and-forget: notifiers never report failures back to the caller.
package toast

import (
	"sync"

	"go.uber.org/zap"
)

// Kind classifies a toast.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
)

// Messages shown by the payment flow.
const (
	MsgSelectChannelFirst = "Seleccione un tipo de notificación primero"
	MsgNotificationSent   = "¡Notificación Enviada!"
	MsgNotificationFailed = "Error al enviar notificación"
	MsgPaymentFailed      = "Error al procesar el pago"
	MsgReportFailed       = "Error al generar el PDF"
	MsgReportDownloaded   = "Reporte PDF descargado"
)

// Toast is one message.
type Toast struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

// Success builds a success toast.
func Success(msg string) Toast { return Toast{Kind: KindSuccess, Message: msg} }

// Error builds an error toast.
func Error(msg string) Toast { return Toast{Kind: KindError, Message: msg} }

// Info builds an informational toast.
func Info(msg string) Toast { return Toast{Kind: KindInfo, Message: msg} }

// Notifier displays toasts.
type Notifier interface {
	Notify(t Toast)
}

// Func adapts a function to Notifier.
type Func func(Toast)

// Notify calls fn.
func (fn Func) Notify(t Toast) {
	if fn != nil {
		fn(t)
	}
}

// Queue buffers toasts until a transport drains them.
type Queue struct {
	mu      sync.Mutex
	pending []Toast
}

// NewQueue returns an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Notify appends t.
func (q *Queue) Notify(t Toast) {
	q.mu.Lock()
	q.pending = append(q.pending, t)
	q.mu.Unlock()
}

// Drain returns and clears the pending toasts.
func (q *Queue) Drain() []Toast {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.pending
	q.pending = nil
	return out
}

// Len returns the number of pending toasts.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Log writes toasts to a zap logger.
type Log struct {
	logger *zap.Logger
}

// NewLog returns a notifier logging through logger.
func NewLog(logger *zap.Logger) *Log {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Log{logger: logger}
}

// Notify logs t at info, or warn for error toasts.
func (l *Log) Notify(t Toast) {
	if t.Kind == KindError {
		l.logger.Warn("toast", zap.String("kind", string(t.Kind)), zap.String("message", t.Message))
		return
	}
	l.logger.Info("toast", zap.String("kind", string(t.Kind)), zap.String("message", t.Message))
}

// Multi fans a toast out to every notifier.
type Multi []Notifier

// Notify forwards t to each non-nil notifier.
func (m Multi) Notify(t Toast) {
	for _, n := range m {
		if n != nil {
			n.Notify(t)
		}
	}
}
