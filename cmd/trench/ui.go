package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
)

var (
	stdinReader = bufio.NewReader(os.Stdin)
	accent      = color.New(color.FgCyan, color.Bold)
	success     = color.New(color.FgGreen, color.Bold)
	warn        = color.New(color.FgYellow, color.Bold)
	danger      = color.New(color.FgRed, color.Bold)
	neutral     = color.New(color.FgHiWhite)
)

func printSuccess(msg string) {
	success.Println(msg)
}

func printWarn(msg string) {
	warn.Println(msg)
}

func printError(msg string) {
	danger.Println(msg)
}

func printInfo(msg string) {
	neutral.Println(msg)
}

func promptRequired(label string) (string, error) {
	for {
		fmt.Printf("%s: ", label)
		text, err := stdinReader.ReadString('\n')
		if err != nil {
			return "", err
		}
		text = strings.TrimSpace(text)
		if text != "" {
			return text, nil
		}
		printWarn(label + " is required.")
	}
}

// printSnapshot renders a state payload. Both /v1/state responses and the
// wrapped {"state": ...} shapes land here.
func printSnapshot(out map[string]any) {
	if inner, ok := out["state"].(map[string]any); ok {
		out = inner
	}
	phase, _ := out["phase"].(string)
	accent.Printf("phase: %s", phase)
	if progress, ok := out["day_progress"].(float64); ok && phase == "active" {
		accent.Printf("  (%.0f%% of the day gone)", progress*100)
	}
	fmt.Println()

	player, ok := out["player"].(map[string]any)
	if !ok {
		printWarn("No run in progress. `trench start` to begin.")
		return
	}
	if title, ok := out["title"].(string); ok && title != "" {
		neutral.Printf("title: %s\n", title)
	}
	printNum(player, "day", "day %.0f")
	printNum(player, "sol", "balance: %.2f SOL")
	printNum(player, "health", "health: %.1f")
	printNum(player, "trading_skill", "skill: %.0f")
	printNum(player, "xp", "xp: %.0f")
	if mood, ok := player["trading_mood"].(string); ok && mood != "" {
		neutral.Printf("mood: %s\n", mood)
	}

	if trade, ok := out["trade"].(map[string]any); ok {
		pnl, _ := trade["pnl"].(float64)
		line := fmt.Sprintf("open trade %v: pnl %+.2f SOL", trade["coin"], pnl)
		if pnl >= 0 {
			success.Println(line)
		} else {
			danger.Println(line)
		}
	}
	if coin, ok := player["active_memecoin"].(map[string]any); ok {
		neutral.Printf("memecoin %v: phase %v, %.0f holders\n", coin["name"], coin["phase"], numOr(coin, "holders", 0))
	}
}

func printNum(m map[string]any, key, format string) {
	if v, ok := m[key].(float64); ok {
		neutral.Printf(format+"\n", v)
	}
}

func numOr(m map[string]any, key string, fallback float64) float64 {
	if v, ok := m[key].(float64); ok {
		return v
	}
	return fallback
}

func printEvents(out map[string]any) {
	events, ok := out["events"].([]any)
	if !ok || len(events) == 0 {
		printInfo("Console is quiet.")
		return
	}
	for _, raw := range events {
		ev, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		msg, _ := ev["message"].(string)
		switch ev["kind"] {
		case "success", "pnl":
			success.Println(msg)
		case "warning":
			warn.Println(msg)
		case "error", "rug_pull":
			danger.Println(msg)
		case "meme":
			accent.Println(msg)
		default:
			neutral.Println(msg)
		}
	}
}
