// Package expense contiene los casos de uso del ciclo de vida de los reportes de gastos:
// captura del empleado, revisión en dos niveles y pagos.
package expense

import (
	"context"
	"io"
)

// ReceiptStorage almacenamiento de archivos de comprobantes. Devuelve la URL relativa del archivo guardado.
type ReceiptStorage interface {
	Save(ctx context.Context, companyID, userID, ext string, body io.Reader) (string, error)
}

// TransitionObserver contador de transiciones de estado (Prometheus en producción).
type TransitionObserver interface {
	ObserveTransition(from, to string)
}

type nopObserver struct{}

func (nopObserver) ObserveTransition(string, string) {}
