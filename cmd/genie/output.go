// ABOUTME: Terminal rendering for answers, space info, and sample questions
// ABOUTME: Applies color and row-count formatting per user settings

package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/PortoLucas1/dbx-apps-genie-api/internal/genie"
)

var (
	headingColor  = color.New(color.FgCyan, color.Bold)
	okColor       = color.New(color.FgGreen)
	questionColor = color.New(color.FgYellow)
	faintColor    = color.New(color.Faint)
)

func applyColorSetting(settings *Settings) {
	color.NoColor = color.NoColor || !settings.Output.Color
}

func printResult(result *genie.Result, settings *Settings) {
	applyColorSetting(settings)

	if result.IsTable() {
		fmt.Print(result.Table.Render(settings.Output.MaxRows))
		faintColor.Printf("%s rows\n", humanize.Comma(int64(result.Table.NumRows())))
		if result.QueryText != "" {
			faintColor.Printf("query: %s\n", result.QueryText)
		}
	} else {
		fmt.Println(result.Text)
	}

	if len(result.Suggestions) > 0 {
		headingColor.Println("\nSuggested questions:")
		for _, q := range result.Suggestions {
			questionColor.Printf("  - %s\n", q)
		}
	}
	if result.ConversationID != "" {
		faintColor.Printf("\nconversation: %s\n", result.ConversationID)
	}
}

func printOK(msg string) {
	okColor.Println(msg)
}

func printSpace(title, description string, settings *Settings) {
	applyColorSetting(settings)
	if title != "" {
		headingColor.Println(title)
	}
	if description != "" {
		fmt.Println(description)
	}
}

func printQuestions(questions []string, settings *Settings) {
	applyColorSetting(settings)
	headingColor.Println("Sample questions:")
	for _, q := range questions {
		questionColor.Printf("  - %s\n", q)
	}
}
