// Package storage guarda los comprobantes subidos en el sistema de archivos local.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/jhoicas/Gastos-api/internal/application/expense"
)

var _ expense.ReceiptStorage = (*LocalReceipts)(nil)

// LocalReceipts escribe en <dir>/<company>/<user>/<uuid><ext> y devuelve la URL pública
// bajo urlPrefix.
type LocalReceipts struct {
	dir       string
	urlPrefix string
}

// NewLocalReceipts construye el almacenamiento. urlPrefix es la ruta con que Fiber sirve dir.
func NewLocalReceipts(dir, urlPrefix string) *LocalReceipts {
	return &LocalReceipts{dir: dir, urlPrefix: urlPrefix}
}

// Save copia body a un archivo nuevo. Un fallo a mitad de escritura elimina el archivo parcial.
func (s *LocalReceipts) Save(ctx context.Context, companyID, userID, ext string, body io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if companyID == "" || userID == "" {
		return "", fmt.Errorf("storage: empresa y usuario son obligatorios")
	}
	folder := filepath.Join(s.dir, filepath.Base(companyID), filepath.Base(userID))
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return "", fmt.Errorf("storage: crear carpeta: %w", err)
	}
	name := uuid.New().String() + ext
	full := filepath.Join(folder, name)

	f, err := os.OpenFile(full, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("storage: crear archivo: %w", err)
	}
	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		os.Remove(full)
		return "", fmt.Errorf("storage: escribir: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(full)
		return "", fmt.Errorf("storage: cerrar: %w", err)
	}
	return path.Join(s.urlPrefix, filepath.Base(companyID), filepath.Base(userID), name), nil
}
