package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	cl "trench/internal/cli"
	"trench/internal/config"
	"trench/internal/game"

	"github.com/spf13/cobra"
)

func main() {
	cfg := config.LoadCLIFromEnv()
	apiBase := cfg.APIBaseURL

	root := &cobra.Command{
		Use:          "trench",
		Short:        "Memecoin trenches game client",
		SilenceUsage: true,
	}

	root.AddCommand(
		newStartCmd(&apiBase),
		newStateCmd(&apiBase),
		newMoodCmd(&apiBase),
		newOpenCmd(&apiBase),
		newCloseCmd(&apiBase),
		newLaunchCmd(&apiBase),
		newRugCmd(&apiBase),
		newGambleCmd(&apiBase),
		newUpgradeCmd(&apiBase),
		newSleepCmd(&apiBase),
		newWakeCmd(&apiBase),
		newEventsCmd(&apiBase),
		newWatchCmd(&apiBase),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newClient(apiBase *string) *cl.Client {
	return cl.NewClient(strings.TrimRight(strings.TrimSpace(*apiBase), "/"))
}

func reqContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), 30*time.Second)
}

func newStartCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start (or restart) a run",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := reqContext(cmd)
			defer cancel()
			out, err := newClient(apiBase).StartGame(ctx)
			if err != nil {
				return err
			}
			printSuccess("Fresh run. 5 SOL, day 1, no mood yet.")
			printSnapshot(out)
			return nil
		},
	}
}

func newStateCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "state",
		Short: "Show the current session state",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := reqContext(cmd)
			defer cancel()
			out, err := newClient(apiBase).State(ctx)
			if err != nil {
				return err
			}
			printSnapshot(out)
			return nil
		},
	}
}

func newMoodCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "mood [fomo|insider|fader|grass|smart|roll]",
		Short: "Pick the day's trading mood and start the day",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mood := "roll"
			if len(args) == 1 {
				mood = strings.ToLower(args[0])
			}
			ctx, cancel := reqContext(cmd)
			defer cancel()
			out, err := newClient(apiBase).SelectMood(ctx, mood)
			if err != nil {
				return err
			}
			if m, ok := out["mood"].(string); ok {
				printSuccess("Mood locked in: " + m + ". The day is running.")
			}
			return nil
		},
	}
}

func newOpenCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "open [coin] [size]",
		Short: "Open a trade",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			coin := ""
			if len(args) >= 1 {
				coin = strings.ToUpper(args[0])
			}
			var size float64
			if len(args) == 2 {
				v, err := strconv.ParseFloat(args[1], 64)
				if err != nil {
					return fmt.Errorf("bad size %q", args[1])
				}
				size = v
			} else {
				raw, err := promptRequired("Size (SOL)")
				if err != nil {
					return err
				}
				if size, err = strconv.ParseFloat(raw, 64); err != nil {
					return fmt.Errorf("bad size %q", raw)
				}
			}

			ctx, cancel := reqContext(cmd)
			defer cancel()
			out, err := newClient(apiBase).OpenTrade(ctx, coin, size)
			if err != nil {
				return err
			}
			printSuccess(fmt.Sprintf("Opened %v with %v SOL committed.", out["coin"], out["size"]))
			return nil
		},
	}
}

func newCloseCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "close",
		Short: "Close the open trade",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := reqContext(cmd)
			defer cancel()
			out, err := newClient(apiBase).CloseTrade(ctx)
			if err != nil {
				return err
			}
			if pnl, ok := out["pnl"].(float64); ok {
				if pnl >= 0 {
					printSuccess(fmt.Sprintf("Closed for %+.2f SOL.", pnl))
				} else {
					printError(fmt.Sprintf("Closed for %+.2f SOL.", pnl))
				}
			}
			return nil
		},
	}
}

func newLaunchCmd(apiBase *string) *cobra.Command {
	var (
		trend     string
		liquidity float64
		rug       bool
	)
	cmd := &cobra.Command{
		Use:   "launch [name]",
		Short: "Launch a memecoin",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = strings.ToUpper(args[0])
			}
			if _, err := game.ParseTrend(trend); err != nil {
				return err
			}
			ctx, cancel := reqContext(cmd)
			defer cancel()
			out, err := newClient(apiBase).LaunchMemecoin(ctx, name, trend, liquidity, rug)
			if err != nil {
				return err
			}
			printSuccess(fmt.Sprintf("%v is live. Target ATH %v.", out["name"], out["ath"]))
			if rug {
				printWarn("Rug armed. `trench rug` when the time is right.")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&trend, "trend", "dog", "narrative: trump, dog, cat or elon")
	cmd.Flags().Float64Var(&liquidity, "liquidity", 0.5, "dev buy in SOL")
	cmd.Flags().BoolVar(&rug, "rug", false, "arm a rug pull")
	return cmd
}

func newRugCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "rug",
		Short: "Execute the armed rug pull",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := reqContext(cmd)
			defer cancel()
			out, err := newClient(apiBase).RugMemecoin(ctx)
			if err != nil {
				return err
			}
			if profit, ok := out["profit"].(float64); ok {
				printSuccess(fmt.Sprintf("Rugged for %+.2f SOL. No relaunch today.", profit))
			}
			return nil
		},
	}
}

func newGambleCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "gamble",
		Short: "Toggle auto-gambling",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := reqContext(cmd)
			defer cancel()
			out, err := newClient(apiBase).ToggleGambling(ctx)
			if err != nil {
				return err
			}
			if on, ok := out["gambling_mode"].(bool); ok && on {
				printWarn("Auto gambling ON. Health and balance are on the line.")
			} else {
				printInfo("Auto gambling OFF.")
			}
			return nil
		},
	}
}

func newUpgradeCmd(apiBase *string) *cobra.Command {
	var username string
	cmd := &cobra.Command{
		Use:   "upgrade <kind>",
		Short: "Buy an unlock (gambling, equipment, twitter, trendscope, twitterGiveaway, bundler, referralFarming, memecoinLearn)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := args[0]
			if kind == "twitter" && username == "" {
				handle, err := promptRequired("Twitter username")
				if err != nil {
					return err
				}
				username = handle
			}
			ctx, cancel := reqContext(cmd)
			defer cancel()
			if _, err := newClient(apiBase).PurchaseUpgrade(ctx, kind, username); err != nil {
				return err
			}
			printSuccess("Purchased: " + kind)
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "twitter handle (twitter upgrade only)")
	return cmd
}

func newSleepCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "sleep",
		Short: "End the recap and sleep",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := reqContext(cmd)
			defer cancel()
			if _, err := newClient(apiBase).Sleep(ctx); err != nil {
				return err
			}
			printInfo("Sleeping. `trench wake` to start the next day.")
			return nil
		},
	}
}

func newWakeCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "wake",
		Short: "Wake into the next day",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := reqContext(cmd)
			defer cancel()
			out, err := newClient(apiBase).WakeUp(ctx)
			if err != nil {
				return err
			}
			printSuccess("gm. New day, fresh launches.")
			printSnapshot(out)
			return nil
		},
	}
}

func newEventsCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "events",
		Short: "Show the recent console feed",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := reqContext(cmd)
			defer cancel()
			out, err := newClient(apiBase).Events(ctx)
			if err != nil {
				return err
			}
			printEvents(out)
			return nil
		},
	}
}
