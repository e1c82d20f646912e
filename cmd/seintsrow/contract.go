package main

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/weisyn/seints-row/contracts/seintsrow"
	"github.com/weisyn/seints-row/internal/app"
	"github.com/weisyn/seints-row/internal/core/host"
	"github.com/weisyn/seints-row/pkg/types"
)

// contractFlags 合约调用的公共标志
type contractFlags struct {
	sender string
	codeID uint64
	admin  string
	label  string
	funds  []string
}

func (c *cli) codesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "codes",
		Short: "列出已存储的代码",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, func(ctx context.Context, a *app.App) error {
				codes, err := a.Host().Codes(ctx)
				if err != nil {
					return err
				}
				return c.formatter.Print(codes)
			})
		},
	}
}

func (c *cli) instantiateCmd() *cobra.Command {
	var f contractFlags
	cmd := &cobra.Command{
		Use:   "instantiate <msg>",
		Short: "创建合约实例",
		Long: `以 <msg> 为 InstantiateMsg 创建实例，例如:

  seintsrow instantiate '{"name":"Seints Row","symbol":"SEINT","decimals":6,"initial_supply":"1000000"}' \
    --sender owner --admin owner --label "seints row"

未指定 --code-id 时使用内置的 seints_row 代码。`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			msg, err := readJSONArg(args[0])
			if err != nil {
				return err
			}
			funds, err := parseFunds(f.funds)
			if err != nil {
				return err
			}
			return c.run(cmd, func(ctx context.Context, a *app.App) error {
				h := a.Host()
				codeID := f.codeID
				if codeID == 0 {
					if codeID, err = codeByName(ctx, h, seintsrow.ContractName); err != nil {
						return err
					}
				}
				req := host.InstantiateRequest{
					CodeID: codeID,
					Sender: h.ResolveAccount(f.sender).String(),
					Label:  f.label,
					Msg:    msg,
					Funds:  funds,
				}
				if f.admin != "" {
					req.Admin = h.ResolveAccount(f.admin).String()
				}
				res, err := h.Instantiate(ctx, req)
				if err != nil {
					return err
				}
				return c.formatter.Print(res)
			})
		},
	}
	cmd.Flags().StringVar(&f.sender, "sender", "", "发送者账户名或地址")
	cmd.Flags().Uint64Var(&f.codeID, "code-id", 0, "代码ID")
	cmd.Flags().StringVar(&f.admin, "admin", "", "管理员账户名或地址，为空则不可迁移")
	cmd.Flags().StringVar(&f.label, "label", "", "实例标签")
	cmd.Flags().StringSliceVar(&f.funds, "funds", nil, "附带资金，如 100useint")
	_ = cmd.MarkFlagRequired("sender")
	return cmd
}

func (c *cli) executeCmd() *cobra.Command {
	var f contractFlags
	cmd := &cobra.Command{
		Use:   "execute <contract> <msg>",
		Short: "执行合约",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			msg, err := readJSONArg(args[1])
			if err != nil {
				return err
			}
			funds, err := parseFunds(f.funds)
			if err != nil {
				return err
			}
			return c.run(cmd, func(ctx context.Context, a *app.App) error {
				h := a.Host()
				res, err := h.Execute(ctx, args[0], h.ResolveAccount(f.sender).String(), msg, funds...)
				if err != nil {
					return err
				}
				return c.formatter.Print(res)
			})
		},
	}
	cmd.Flags().StringVar(&f.sender, "sender", "", "发送者账户名或地址")
	cmd.Flags().StringSliceVar(&f.funds, "funds", nil, "附带资金，如 100useint")
	_ = cmd.MarkFlagRequired("sender")
	return cmd
}

func (c *cli) queryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "query <contract> <msg>",
		Short: "只读查询",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			msg, err := readJSONArg(args[1])
			if err != nil {
				return err
			}
			return c.run(cmd, func(ctx context.Context, a *app.App) error {
				out, err := a.Host().Query(ctx, args[0], msg)
				if err != nil {
					return err
				}
				return c.formatter.PrintRaw(out)
			})
		},
	}
}

func (c *cli) migrateCmd() *cobra.Command {
	var f contractFlags
	cmd := &cobra.Command{
		Use:   "migrate <contract> [msg]",
		Short: "迁移合约到新代码，只有管理员可以执行",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			msg := []byte("{}")
			if len(args) == 2 {
				var err error
				if msg, err = readJSONArg(args[1]); err != nil {
					return err
				}
			}
			return c.run(cmd, func(ctx context.Context, a *app.App) error {
				h := a.Host()
				codeID := f.codeID
				if codeID == 0 {
					rec, err := h.ContractInfo(ctx, args[0])
					if err != nil {
						return err
					}
					codeID = rec.CodeID
				}
				res, err := h.Migrate(ctx, args[0], h.ResolveAccount(f.sender).String(), codeID, msg)
				if err != nil {
					return err
				}
				return c.formatter.Print(res)
			})
		},
	}
	cmd.Flags().StringVar(&f.sender, "sender", "", "管理员账户名或地址")
	cmd.Flags().Uint64Var(&f.codeID, "code-id", 0, "目标代码ID，缺省为当前代码")
	_ = cmd.MarkFlagRequired("sender")
	return cmd
}

func (c *cli) updateAdminCmd() *cobra.Command {
	var f contractFlags
	cmd := &cobra.Command{
		Use:   "update-admin <contract> [new-admin]",
		Short: "更换管理员，省略 new-admin 表示清除",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, func(ctx context.Context, a *app.App) error {
				h := a.Host()
				newAdmin := ""
				if len(args) == 2 {
					newAdmin = h.ResolveAccount(args[1]).String()
				}
				if err := h.UpdateAdmin(ctx, args[0], h.ResolveAccount(f.sender).String(), newAdmin); err != nil {
					return err
				}
				rec, err := h.ContractInfo(ctx, args[0])
				if err != nil {
					return err
				}
				return c.formatter.Print(rec)
			})
		},
	}
	cmd.Flags().StringVar(&f.sender, "sender", "", "当前管理员账户名或地址")
	_ = cmd.MarkFlagRequired("sender")
	return cmd
}

func (c *cli) contractsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "contracts",
		Short: "列出合约实例",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, func(ctx context.Context, a *app.App) error {
				list, err := a.Host().Contracts(ctx)
				if err != nil {
					return err
				}
				if list == nil {
					list = []host.ContractRecord{}
				}
				return c.formatter.Print(list)
			})
		},
	}
}

func (c *cli) infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <contract>",
		Short: "合约实例信息",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, func(ctx context.Context, a *app.App) error {
				rec, err := a.Host().ContractInfo(ctx, args[0])
				if err != nil {
					return err
				}
				return c.formatter.Print(rec)
			})
		},
	}
}

func (c *cli) stateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "state <contract>",
		Short: "导出合约的原始存储",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, func(ctx context.Context, a *app.App) error {
				records, err := a.Host().DumpState(ctx, args[0])
				if err != nil {
					return err
				}
				return c.formatter.Print(host.StateEntries(records))
			})
		},
	}
}

func codeByName(ctx context.Context, h *host.Host, name string) (uint64, error) {
	codes, err := h.Codes(ctx)
	if err != nil {
		return 0, err
	}
	for _, code := range codes {
		if code.Name == name {
			return code.ID, nil
		}
	}
	return 0, types.NotFoundf("code %s", name)
}

// parseFunds 解析 <amount><denom> 形式的资金
func parseFunds(items []string) ([]types.Coin, error) {
	coins := make([]types.Coin, 0, len(items))
	for _, item := range items {
		i := 0
		for i < len(item) && item[i] >= '0' && item[i] <= '9' {
			i++
		}
		if i == 0 || i == len(item) {
			return nil, types.InvalidInputf("invalid funds %q, expected <amount><denom>", item)
		}
		amount, err := strconv.ParseUint(item[:i], 10, 64)
		if err != nil {
			return nil, types.InvalidInputf("invalid funds amount %q: %v", item, err)
		}
		coins = append(coins, types.Coin{Denom: item[i:], Amount: types.NewUint128(amount)})
	}
	return coins, nil
}
