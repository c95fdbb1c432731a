package commands

import (
	"fmt"
	"log"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

var levels = map[string]*color.Color{
	"DEBUG": color.New(color.FgHiBlack),
	"INFO":  color.New(color.FgGreen),
	"WARN":  color.New(color.FgYellow),
	"ERROR": color.New(color.FgRed, color.Bold),
}

func init() {
	if !term.IsTerminal(int(os.Stderr.Fd())) {
		color.NoColor = true
	}
}

func debugf(format string, args ...any) {
	logf("DEBUG", format, args...)
}

func infof(format string, args ...any) {
	logf("INFO", format, args...)
}

func warnf(format string, args ...any) {
	logf("WARN", format, args...)
}

func errorf(format string, args ...any) {
	logf("ERROR", format, args...)
}

func logf(level string, format string, args ...any) {
	tag := fmt.Sprintf("%-5s", level)
	if c, ok := levels[level]; ok {
		tag = c.Sprint(tag)
	}

	log.Printf("%s %s", tag, fmt.Sprintf(format, args...))
}
