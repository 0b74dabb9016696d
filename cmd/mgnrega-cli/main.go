// 命令行工具：运维侧排查反地理解析链、县名规则与排行榜
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"mgnrega-api/internal/config"
	"mgnrega-api/internal/leaderboard"
	"mgnrega-api/internal/logger"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	okColor   = color.New(color.FgGreen, color.Bold)
	warnColor = color.New(color.FgYellow)
	failColor = color.New(color.FgRed, color.Bold)
	dimColor  = color.New(color.FgHiBlack)
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

var cfg config.Config

var noColor bool

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "mgnrega-cli",
		Short:         "Inspect the district geo-resolver, name rules and leaderboard",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if noColor {
				color.NoColor = true
			}
			cfg = config.Load()
		},
	}
	root.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	root.AddCommand(newResolveCmd(), newProvidersCmd(), newNormalizeCmd(), newLeaderboardCmd())
	return root
}

// categoryColor：排行榜分档着色
func categoryColor(c leaderboard.Category) *color.Color {
	switch c {
	case leaderboard.Excellent:
		return okColor
	case leaderboard.Good:
		return color.New(color.FgCyan)
	case leaderboard.Average:
		return warnColor
	}
	return failColor
}

func main() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join("data", "env", ".env"))
	logger.Setup()
	if err := newRootCmd().ExecuteContext(rootCtx); err != nil {
		fmt.Fprintln(os.Stderr, failColor.Sprint("error: ")+err.Error())
		os.Exit(1)
	}
}
