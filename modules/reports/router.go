package reports

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/eparking/parkd/core"
	"github.com/eparking/parkd/modules/parking"
)

// NewRouter exposes the periodic report and its export formats.
func NewRouter(svc *Service) http.Handler {
	r := chi.NewRouter()
	r.Get("/", handleReport(svc))
	r.Get("/export", handleExport(svc))
	return r
}

func respondError(w http.ResponseWriter, err error) {
	var httpErr core.HTTPError
	switch {
	case errors.Is(err, ErrInvalidPeriod), errors.Is(err, ErrInvalidFormat):
		httpErr = core.ErrBadRequest
	case errors.Is(err, parking.ErrTransactionNotFound):
		httpErr = core.ErrNotFound
	case errors.Is(err, ErrReceiptUnavailable):
		httpErr = core.ErrConflict
	case errors.Is(err, parking.ErrGateway):
		httpErr = core.ErrBadGateway
	default:
		core.WriteError(w, err)
		return
	}
	core.WriteError(w, fmt.Errorf("%w: %v", httpErr, err))
}

func handleReport(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		period, err := ParsePeriod(r.URL.Query().Get("period"))
		if err != nil {
			respondError(w, err)
			return
		}
		report, err := svc.Build(r.Context(), period)
		if err != nil {
			respondError(w, err)
			return
		}
		core.WriteJSON(w, http.StatusOK, report)
	}
}

func handleExport(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		period, err := ParsePeriod(r.URL.Query().Get("period"))
		if err != nil {
			respondError(w, err)
			return
		}
		format := r.URL.Query().Get("format")
		if format != "xlsx" && format != "pdf" {
			respondError(w, ErrInvalidFormat)
			return
		}

		report, err := svc.Build(r.Context(), period)
		if err != nil {
			respondError(w, err)
			return
		}

		var (
			payload     []byte
			contentType string
		)
		switch format {
		case "xlsx":
			payload, err = ExportExcel(report)
			contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		case "pdf":
			payload, err = ExportPDF(report)
			contentType = "application/pdf"
		}
		if err != nil {
			respondError(w, err)
			return
		}

		filename := fmt.Sprintf("laporan-parkir-%s.%s", report.GeneratedAt.Format("20060102"), format)
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(payload)
	}
}

// ReceiptHandler serves the receipt of one completed transaction. The
// default response is JSON including the printable text block;
// format=qr returns the QR code PNG instead. Mount it on the transaction
// path, e.g. GET /transactions/{id}/receipt.
func ReceiptHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			core.WriteError(w, core.ErrBadRequest)
			return
		}
		receipt, err := svc.Receipt(r.Context(), id)
		if err != nil {
			respondError(w, err)
			return
		}

		if r.URL.Query().Get("format") == "qr" {
			png, err := receipt.QRCode(256)
			if err != nil {
				respondError(w, err)
				return
			}
			w.Header().Set("Content-Type", "image/png")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(png)
			return
		}

		core.WriteJSON(w, http.StatusOK, struct {
			*Receipt
			Text string `json:"text"`
		}{Receipt: receipt, Text: receipt.Text()})
	}
}
