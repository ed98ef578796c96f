package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyPassID     = "pass_id"
	KeySet        = "set"
	KeyFile       = "file"
	KeyTarget     = "target"
	KeyNodeType   = "node_type"
	KeyReference  = "reference"
	KeyToken      = "token"
	KeyToc        = "toc"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyPath       = "path"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func PassID(id string) slog.Attr      { return slog.String(KeyPassID, id) }
func Set(name string) slog.Attr       { return slog.String(KeySet, name) }
func File(f string) slog.Attr         { return slog.String(KeyFile, f) }
func Target(t string) slog.Attr       { return slog.String(KeyTarget, t) }
func NodeType(t string) slog.Attr     { return slog.String(KeyNodeType, t) }
func Reference(r string) slog.Attr    { return slog.String(KeyReference, r) }
func Token(t string) slog.Attr        { return slog.String(KeyToken, t) }
func Toc(name string) slog.Attr       { return slog.String(KeyToc, name) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
