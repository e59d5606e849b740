package theme

import (
	"os"
	"strings"
)

// SymbolSet holds the glyphs used by the wizard, so ASCII terminals can
// swap the whole set at once.
type SymbolSet struct {
	Success   string
	Error     string
	Warning   string
	Info      string
	ArrowR    string
	Bullet    string
	Ellipsis  string
	Checked   string
	Unchecked string
	Cursor    string
}

var unicodeSymbols = SymbolSet{
	Success:   "\u2713", // ✓
	Error:     "\u2717", // ✗
	Warning:   "\u26A0", // ⚠
	Info:      "\u25CF", // ●
	ArrowR:    "\u2192", // →
	Bullet:    "\u2022", // •
	Ellipsis:  "\u2026", // …
	Checked:   "\u25C9", // ◉
	Unchecked: "\u25CB", // ○
	Cursor:    "\u203A", // ›
}

var asciiSymbols = SymbolSet{
	Success:   "[OK]",
	Error:     "[ERR]",
	Warning:   "[!]",
	Info:      "[i]",
	ArrowR:    "->",
	Bullet:    "*",
	Ellipsis:  "...",
	Checked:   "[x]",
	Unchecked: "[ ]",
	Cursor:    ">",
}

// DetectUnicodeSupport reports whether the terminal likely renders Unicode.
// BLOOP_ASCII_SYMBOLS=1 forces ASCII; otherwise the locale decides, and
// Unicode is assumed when no locale says otherwise.
func DetectUnicodeSupport() bool {
	if v := os.Getenv("BLOOP_ASCII_SYMBOLS"); v == "1" || strings.EqualFold(v, "true") {
		return false
	}
	for _, key := range []string{"LC_ALL", "LC_CTYPE", "LANG"} {
		val := strings.ToLower(os.Getenv(key))
		if val == "c" || val == "posix" {
			return false
		}
		if strings.Contains(val, "utf-8") || strings.Contains(val, "utf8") {
			return true
		}
	}
	return true
}

// Symbols returns the active set.
func Symbols() SymbolSet {
	return SymbolSet{
		Success:   SymbolSuccess,
		Error:     SymbolError,
		Warning:   SymbolWarning,
		Info:      SymbolInfo,
		ArrowR:    SymbolArrowR,
		Bullet:    SymbolBullet,
		Ellipsis:  SymbolEllipsis,
		Checked:   SymbolChecked,
		Unchecked: SymbolUnchecked,
		Cursor:    SymbolCursor,
	}
}

// InitSymbols sets the package-level Symbol* variables from terminal
// capabilities. init calls it; tests call it again after changing the
// environment.
func InitSymbols() {
	set := unicodeSymbols
	if !DetectUnicodeSupport() {
		set = asciiSymbols
	}

	SymbolSuccess = set.Success
	SymbolError = set.Error
	SymbolWarning = set.Warning
	SymbolInfo = set.Info
	SymbolArrowR = set.ArrowR
	SymbolBullet = set.Bullet
	SymbolEllipsis = set.Ellipsis
	SymbolChecked = set.Checked
	SymbolUnchecked = set.Unchecked
	SymbolCursor = set.Cursor
}

func init() {
	InitSymbols()
}
