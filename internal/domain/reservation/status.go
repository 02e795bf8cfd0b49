package reservation

import "time"

// Status es el estado de una reserva. Máquina de estados:
//
//	ACTIVE -> DUE_SOON -> OVERDUE
//
// y cualquiera de los tres estados abiertos puede pasar a RETURNED, CANCELED
// o CONVERTED. Los estados terminales no tienen transiciones posteriores.
type Status string

const (
	StatusActive  Status = "ACTIVE"
	StatusDueSoon Status = "DUE_SOON"
	StatusOverdue Status = "OVERDUE"

	// Terminales
	StatusReturned Status = "RETURNED"
	StatusCanceled Status = "CANCELED"
	// CONVERTED está reservado para la conversión de reserva en venta;
	// ninguna operación del núcleo lo produce todavía.
	StatusConverted Status = "CONVERTED"
)

// OpenStatuses son los estados que aportan Qty a qty_reserved del saldo.
var OpenStatuses = []Status{StatusActive, StatusDueSoon, StatusOverdue}

// IsTerminal indica si el estado no admite más transiciones.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusReturned, StatusCanceled, StatusConverted:
		return true
	}
	return false
}

// IsValid indica si el valor es un estado conocido.
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusDueSoon, StatusOverdue,
		StatusReturned, StatusCanceled, StatusConverted:
		return true
	}
	return false
}

// NotificationKind identifica el tipo de notificación que dispara una
// transición por tiempo. La variante para gerentes usa el sufijo _MANAGER para
// que el dedup por día sea independiente del enviado al vendedor.
type NotificationKind string

const (
	NotifyDueSoon NotificationKind = "RESERVATION_DUE_SOON"
	NotifyOverdue NotificationKind = "RESERVATION_OVERDUE"
)

// ManagerKind devuelve la clave de dedup equivalente para gerentes.
func (k NotificationKind) ManagerKind() NotificationKind {
	return k + "_MANAGER"
}

// Transition es el resultado de evaluar la tabla de decisión por tiempo.
type Transition struct {
	Next   Status
	Notify NotificationKind
}

// Evaluate aplica la tabla (estado actual, condición de tiempo) -> (estado
// siguiente, notificación). Devuelve ok=false cuando no corresponde cambio:
//
//	terminal                                  -> sin cambio
//	due_at <= now, estado != OVERDUE          -> OVERDUE  + RESERVATION_OVERDUE
//	due_at - now <= horizon, estado == ACTIVE -> DUE_SOON + RESERVATION_DUE_SOON
//	resto                                     -> sin cambio
func Evaluate(current Status, dueAt, now time.Time, horizon time.Duration) (Transition, bool) {
	if current.IsTerminal() {
		return Transition{}, false
	}
	if !dueAt.After(now) {
		if current == StatusOverdue {
			return Transition{}, false
		}
		return Transition{Next: StatusOverdue, Notify: NotifyOverdue}, true
	}
	if dueAt.Sub(now) <= horizon && current == StatusActive {
		return Transition{Next: StatusDueSoon, Notify: NotifyDueSoon}, true
	}
	return Transition{}, false
}
