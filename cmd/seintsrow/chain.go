package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/weisyn/seints-row/contracts/seintsrow"
	"github.com/weisyn/seints-row/internal/app"
	"github.com/weisyn/seints-row/internal/app/version"
)

func (c *cli) blockCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "block",
		Short: "当前区块",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, func(ctx context.Context, a *app.App) error {
				block, err := a.Host().Block(ctx)
				if err != nil {
					return err
				}
				return c.formatter.Print(block)
			})
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "next [n]",
		Short: "推进 n 个区块 (默认 1)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n := uint64(1)
			if len(args) == 1 {
				var err error
				if n, err = strconv.ParseUint(args[0], 10, 64); err != nil || n == 0 {
					return fmt.Errorf("区块数必须是正整数: %q", args[0])
				}
			}
			return c.run(cmd, func(ctx context.Context, a *app.App) error {
				block, err := a.Host().NextBlock(ctx, n)
				if err != nil {
					return err
				}
				return c.formatter.Print(block)
			})
		},
	})
	return cmd
}

func (c *cli) addressCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "address <name>",
		Short: "由账户名派生地址",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, func(ctx context.Context, a *app.App) error {
				return c.formatter.Print(map[string]string{
					"name":    args[0],
					"address": a.Host().AccountAddress(args[0]).String(),
				})
			})
		},
	}
}

func (c *cli) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "启动本地 HTTP 网关，直到收到退出信号",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, func(ctx context.Context, a *app.App) error {
				if addr := a.Server().Addr(); addr != "" {
					c.formatter.PrintInfo(fmt.Sprintf("HTTP网关: http://%s/api/v1/", addr))
				}
				a.Wait(ctx)
				return nil
			}, app.WithAPI())
		},
	}
}

func (c *cli) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "版本信息",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.formatter.Print(version.GetBuildInfo(seintsrow.ContractName, seintsrow.ContractVersion))
		},
	}
}
