package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/colonyops/convtodo/internal/core/config"
	"github.com/colonyops/convtodo/internal/core/styles"
)

// printer writes human-oriented messages, styled when the destination is a
// terminal and the color setting allows it.
type printer struct {
	w  io.Writer
	st *styles.Styles
}

func newPrinter(w io.Writer, cfg *config.Config) *printer {
	mode := string(config.ColorAuto)
	if cfg != nil {
		mode = string(cfg.Color)
	}

	f, _ := w.(*os.File)
	return &printer{w: w, st: styles.New(w, styles.UseColor(mode, f))}
}

func (p *printer) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(p.w, format+"\n", args...)
}

func (p *printer) Successf(format string, args ...any) {
	_, _ = fmt.Fprintln(p.w, p.st.Success.Render("✔ "+fmt.Sprintf(format, args...)))
}

func (p *printer) Infof(format string, args ...any) {
	_, _ = fmt.Fprintln(p.w, p.st.Muted.Render("• "+fmt.Sprintf(format, args...)))
}

func (p *printer) Errorf(format string, args ...any) {
	_, _ = fmt.Fprintln(p.w, p.st.Error.Render("✘ "+fmt.Sprintf(format, args...)))
}

// Status renders a todo status with its color.
func (p *printer) Status(status string) string {
	return p.st.Status(status).Render(status)
}

// GUID renders an item GUID.
func (p *printer) GUID(guid string) string {
	return p.st.GUID.Render(guid)
}

// Header renders a table or section header.
func (p *printer) Header(s string) string {
	return p.st.Header.Render(s)
}
