package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Setup はINFOレベルのJSON構造化ログ出力のslog.Loggerを生成して返す。
func Setup(w io.Writer) *slog.Logger {
	return SetupWithLevel(w, slog.LevelInfo)
}

// SetupWithLevel は指定レベル以上を出力するJSON構造化ログのslog.Loggerを生成して返す。
func SetupWithLevel(w io.Writer, level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	})
	return slog.New(handler)
}

// ParseLevel はLOG_LEVELの値をslog.Levelに変換する。
// debug/info/warn/errorのいずれでもない場合はINFOを返す。
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SetupDefault はJSON構造化ログ出力をグローバルロガーとして設定し、そのロガーを返す。
// writerがnilの場合はos.Stdoutに出力する。
func SetupDefault(w io.Writer, level slog.Level) *slog.Logger {
	if w == nil {
		w = os.Stdout
	}
	logger := SetupWithLevel(w, level)
	slog.SetDefault(logger)
	return logger
}
