// Package console implements the interactive client: slash commands map to
// tools, free text is routed to a tool, and every answer is shown in a panel.
package console

import (
	"bufio"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"mcp-business-go/internal/router"
	"mcp-business-go/pkg/client"
)

// Caller is the part of the API client the console needs.
type Caller interface {
	ListTools(ctx context.Context) ([]client.Tool, error)
	CallTool(ctx context.Context, name string, args map[string]any) (*client.CallResponse, error)
	Health(ctx context.Context) (map[string]any, error)
}

// Help is printed when the session starts.
const Help = `MCP Empresa - Modo híbrido
Puedes escribir preguntas libres o usar comandos.

Ejemplos:
• ¿Qué tal las ventas de agosto?
• Top 3 productos por unidades
• Genera un PDF del inventario
• Exporta a CSV un reporte de ventas
• Búscame en los documentos "inventario de seguridad"
• ¿Necesito reabastecer? factor seguridad 1.3 lead 10
• Haz un resumen ejecutivo de ventas e inventario

Comandos:
/tools, /health, /ask "pregunta", /sales month=Agosto, /top n=3 by=units,
/inv, /reorder lead_time_days=10 safety_factor=1.3,
/report type=ventas format=pdf, /docs q="texto",
/ingest kind=sales path=./mis_ventas.csv, /quit`

var (
	infoColor = lipgloss.Color("6")
	okColor   = lipgloss.Color("2")
	errColor  = lipgloss.Color("1")

	titleStyle = lipgloss.NewStyle().Bold(true)
	panelStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	hintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	promptText = lipgloss.NewStyle().Bold(true).Foreground(infoColor).Render("> ")
)

// Session is one interactive console.
type Session struct {
	api Caller
	out io.Writer
}

// New creates a session writing to out.
func New(api Caller, out io.Writer) *Session {
	return &Session{api: api, out: out}
}

// Run prints the help panel and reads commands from in until EOF, a quit
// command or ctx cancellation.
func (s *Session) Run(ctx context.Context, in io.Reader) error {
	s.panel("Ayuda", Help, okColor)

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64<<10), 1<<20)
	for {
		fmt.Fprint(s.out, promptText)
		if !scanner.Scan() {
			fmt.Fprintln(s.out)
			return scanner.Err()
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !s.Handle(ctx, scanner.Text()) {
			return nil
		}
	}
}

// Handle executes one input line. It returns false when the session should end.
func (s *Session) Handle(ctx context.Context, line string) bool {
	msg := strings.TrimSpace(line)
	if msg == "" {
		return true
	}
	switch strings.ToLower(msg) {
	case "/quit", "salir", "exit":
		return false
	case "/tools":
		s.listTools(ctx)
		return true
	case "/health":
		s.health(ctx)
		return true
	case "/inv":
		s.call(ctx, "inventory.status", nil)
		return true
	}

	cmd, rest, _ := strings.Cut(msg, " ")
	switch cmd {
	case "/ask":
		q := strings.Trim(strings.TrimSpace(rest), `"'`)
		if q == "" {
			s.hint(`Uso: /ask "pregunta"`)
			return true
		}
		s.call(ctx, "llm.ask", map[string]any{"query": q})
	case "/sales":
		s.call(ctx, "sales.summary", ParseArgs(rest))
	case "/top":
		s.call(ctx, "sales.top", ParseArgs(rest))
	case "/reorder":
		s.call(ctx, "inventory.reorder_suggestions", ParseArgs(rest))
	case "/report":
		s.call(ctx, "report.generate", ParseArgs(rest))
	case "/docs":
		args := ParseArgs(rest)
		if q, _ := args["q"].(string); strings.TrimSpace(q) == "" {
			s.hint(`Uso: /docs q="texto"`)
			return true
		}
		s.call(ctx, "docs.search", args)
	case "/ingest":
		s.ingest(ctx, ParseArgs(rest))
	default:
		if strings.HasPrefix(cmd, "/") {
			s.hint(fmt.Sprintf("Comando desconocido: %s", cmd))
			return true
		}
		intent := router.Resolve(msg)
		s.call(ctx, intent.Tool, intent.Arguments)
	}
	return true
}

func (s *Session) call(ctx context.Context, name string, args map[string]any) {
	resp, err := s.api.CallTool(ctx, name, args)
	if err != nil {
		s.panel("Error", err.Error(), errColor)
		return
	}
	if resp.Result == nil {
		body := "(sin respuesta)"
		if resp.Error != nil {
			body = fmt.Sprintf("[%d] %s", resp.Error.Code, resp.Error.Message)
		}
		s.panel(fmt.Sprintf("Error [%d]", resp.Status), body, errColor)
		return
	}
	color := infoColor
	if resp.Result.IsError {
		color = errColor
	}
	for _, c := range resp.Result.Content {
		text := c.Text
		if text == "" {
			text = "(sin texto)"
		}
		s.panel(fmt.Sprintf("%s [%d]", name, resp.Status), text, color)
	}
}

func (s *Session) listTools(ctx context.Context) {
	list, err := s.api.ListTools(ctx)
	if err != nil {
		s.panel("Error", err.Error(), errColor)
		return
	}
	lines := make([]string, 0, len(list))
	for _, t := range list {
		lines = append(lines, fmt.Sprintf("• %s: %s", t.Name, t.Description))
	}
	s.panel("Herramientas", strings.Join(lines, "\n"), infoColor)
}

func (s *Session) health(ctx context.Context) {
	h, err := s.api.Health(ctx)
	if err != nil {
		s.panel("Error", err.Error(), errColor)
		return
	}
	data, _ := json.MarshalIndent(h, "", "  ")
	s.panel("health", string(data), infoColor)
}

func (s *Session) ingest(ctx context.Context, args map[string]any) {
	kind, _ := args["kind"].(string)
	path, _ := args["path"].(string)
	if kind == "" || path == "" {
		s.hint("Uso: /ingest kind=sales|inventory path=./archivo.csv")
		return
	}
	data, err := os.ReadFile(expandHome(path))
	if err != nil {
		s.panel("Error", fmt.Sprintf("Archivo no encontrado: %s", path), errColor)
		return
	}
	s.call(ctx, "admin.ingest_csv", map[string]any{
		"kind":       kind,
		"csv_base64": base64.StdEncoding.EncodeToString(data),
	})
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

func (s *Session) panel(title, body string, color lipgloss.Color) {
	content := lipgloss.JoinVertical(lipgloss.Left, titleStyle.Foreground(color).Render(title), body)
	fmt.Fprintln(s.out, panelStyle.BorderForeground(color).Render(content))
}

func (s *Session) hint(msg string) {
	fmt.Fprintln(s.out, hintStyle.Render(msg))
}
