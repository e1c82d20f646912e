package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/weisyn/seints-row/internal/app"
	"github.com/weisyn/seints-row/internal/cli/output"
	"github.com/weisyn/seints-row/internal/core/infrastructure/metrics"
)

// GlobalFlags 全局标志
type GlobalFlags struct {
	ConfigFile   string // 配置文件，缺省使用内置配置
	DataDir      string // 数据目录
	OutputFormat string // 输出格式
	Metrics      bool   // 命令结束后把指标写到 stderr
}

// cli 一次命令行调用的状态
type cli struct {
	flags     GlobalFlags
	formatter *output.Formatter

	// extra 测试中追加的应用选项
	extra []app.Option
}

// newRootCmd 根命令及全部子命令
func newRootCmd(extra ...app.Option) *cobra.Command {
	c := &cli{extra: extra}
	root := &cobra.Command{
		Use:   "seintsrow",
		Short: "seints_row 代币合约的本地宿主",
		Long: `seintsrow - 在本地确定性链宿主上运行 seints_row 合约

状态保存在数据目录的 BadgerDB 中，每条命令打开数据库、执行一次调用后关闭。
地址参数既可以是合法地址，也可以是账户名（由宿主派生地址）。
JSON 参数以 @ 开头时从文件读取。`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			format, err := output.ParseFormat(c.flags.OutputFormat)
			if err != nil {
				return err
			}
			c.formatter = output.NewFormatter(format, cmd.OutOrStdout())
			c.formatter.SetLogWriter(cmd.ErrOrStderr())
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.flags.ConfigFile, "config", "", "配置文件路径 (默认使用内置配置)")
	flags.StringVar(&c.flags.DataDir, "data-dir", "", "数据目录，覆盖配置中的 data_dir")
	flags.StringVarP(&c.flags.OutputFormat, "output", "o", "json", "输出格式: json|pretty|table")
	flags.BoolVar(&c.flags.Metrics, "metrics", false, "命令结束后以 prometheus 文本格式输出指标到 stderr")

	root.AddCommand(
		c.codesCmd(),
		c.instantiateCmd(),
		c.executeCmd(),
		c.queryCmd(),
		c.migrateCmd(),
		c.updateAdminCmd(),
		c.contractsCmd(),
		c.infoCmd(),
		c.stateCmd(),
		c.blockCmd(),
		c.addressCmd(),
		c.serveCmd(),
		c.versionCmd(),
	)
	return root
}

// Execute 执行根命令
func Execute() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}

func (c *cli) appOptions(extra ...app.Option) []app.Option {
	var opts []app.Option
	if c.flags.ConfigFile != "" {
		opts = append(opts, app.WithConfigFile(c.flags.ConfigFile))
	}
	if c.flags.DataDir != "" {
		opts = append(opts, app.WithDataDir(c.flags.DataDir))
	}
	opts = append(opts, c.extra...)
	return append(opts, extra...)
}

// run 启动应用执行 fn，结束后关闭数据库
func (c *cli) run(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error, extra ...app.Option) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return app.Run(ctx, func(ctx context.Context, a *app.App) error {
		if err := fn(ctx, a); err != nil {
			return err
		}
		if c.flags.Metrics {
			return metrics.WriteText(cmd.ErrOrStderr(), a.Registry())
		}
		return nil
	}, c.appOptions(extra...)...)
}

// readJSONArg 读取 JSON 参数，@path 表示读取文件
func readJSONArg(arg string) ([]byte, error) {
	if strings.HasPrefix(arg, "@") {
		data, err := os.ReadFile(strings.TrimPrefix(arg, "@"))
		if err != nil {
			return nil, fmt.Errorf("读取消息文件失败: %w", err)
		}
		return data, nil
	}
	return []byte(arg), nil
}
