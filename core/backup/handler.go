package backup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/irsalhamdi/pos-kasir/api/web"
	"github.com/irsalhamdi/pos-kasir/api/weberr"
	"github.com/irsalhamdi/pos-kasir/store"
)

const maxBackupBytes = 32 << 20

func HandleExport(st *store.Store) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		b, err := Export(ctx, st)
		if err != nil {
			return err
		}

		data, err := json.MarshalIndent(b, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding backup: %w", err)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", Filename(time.Now().UTC())))
		w.WriteHeader(http.StatusOK)

		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("writing backup: %w", err)
		}
		return nil
	}
}

func HandleImport(st *store.Store) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBackupBytes))
		if err != nil {
			return weberr.BadRequest(fmt.Errorf("cannot read the request body: %w", err))
		}

		b, err := Parse(data)
		if err != nil {
			if errors.Is(err, ErrInvalidFormat) {
				return weberr.Invalid(err)
			}
			return err
		}

		if err := Import(ctx, st, b); err != nil {
			return err
		}

		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}
}
