package http

import (
	"fmt"
	"net/http"
	"net/mail"
	"strings"

	"offerplan/internal/core"
	"offerplan/internal/email"
	"offerplan/internal/export"
	"offerplan/internal/log"
	"offerplan/internal/metrics"
)

func exportOptions(r *http.Request) export.Options {
	q := r.URL.Query()
	format := export.Format(strings.ToLower(strings.TrimSpace(q.Get("format"))))
	if format == "" {
		format = export.FormatJSON
	}
	return export.Options{
		Format:           format,
		MonthID:          strings.TrimSpace(q.Get("month")),
		IncludeCancelled: formBool(q, "include_cancelled"),
	}
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	opts := exportOptions(r)

	res, err := export.Render(s.service.Snapshot(), opts)
	if err != nil {
		s.logger.WarnContext(r.Context(), "Export failed",
			log.FieldExportFormat, string(opts.Format), "error", err)
		http.Error(w, fmt.Sprintf("export failed: %v", err), http.StatusBadRequest)
		return
	}

	metrics.ExportsTotal.WithLabelValues(string(opts.Format)).Inc()
	w.Header().Set("Content-Type", res.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", res.Filename))
	_, _ = w.Write(res.Data)
}

// handleEmailExport renders the email-format export and sends it to the
// submitted recipients.
func (s *Server) handleEmailExport(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	recipients, err := parseRecipients(r.Form.Get("to"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	opts := export.Options{
		Format:           export.FormatEmail,
		MonthID:          strings.TrimSpace(r.Form.Get("month")),
		IncludeCancelled: formBool(r.Form, "include_cancelled"),
	}
	snapshot := s.service.Snapshot()
	res, err := export.Render(snapshot, opts)
	if err != nil {
		s.logger.WarnContext(r.Context(), "Email export failed", "error", err)
		http.Error(w, fmt.Sprintf("export failed: %v", err), http.StatusBadRequest)
		return
	}

	scoped := snapshot
	if opts.MonthID != "" {
		if m, merr := snapshot.Month(opts.MonthID); merr == nil {
			scoped = core.Plan{*m}
		}
	}

	sent, err := s.sender.Send(r.Context(), email.SendRequest{
		To:      recipients,
		Subject: export.EmailSubject(scoped),
		Text:    string(res.Data),
	})
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Email send failed",
			"recipients", len(recipients), "error", err)
		http.Error(w, "email send failed", http.StatusBadGateway)
		return
	}

	metrics.ExportsTotal.WithLabelValues(string(export.FormatEmail)).Inc()
	s.logger.InfoContext(r.Context(), "Export emailed",
		"recipients", len(recipients),
		"message_id", sent.MessageID)

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "sent to %d recipient(s)\n", len(recipients))
}

func parseRecipients(raw string) ([]string, error) {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		addr := strings.TrimSpace(part)
		if addr == "" {
			continue
		}
		if _, err := mail.ParseAddress(addr); err != nil {
			return nil, fmt.Errorf("invalid recipient %q", addr)
		}
		out = append(out, addr)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("at least one recipient is required")
	}
	return out, nil
}
