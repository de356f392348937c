package utils

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// PageCount returns how many pages of size per are needed for total items, at least one.
func PageCount(total, per int) int {
	if total <= 0 || per <= 0 {
		return 1
	}
	return (total + per - 1) / per
}

// PageBounds clamps page into [1, PageCount] and returns the slice bounds for it.
func PageBounds(page, total, per int) (clamped, start, end int) {
	pages := PageCount(total, per)
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}
	start = (page - 1) * per
	end = start + per
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}
	return page, start, end
}

// CreatePaginationComponents creates a set of pagination buttons.
func CreatePaginationComponents(currentPage, totalPages int, customIDPrefix string, args ...string) []discordgo.MessageComponent {
	if totalPages <= 1 {
		return nil
	}

	buttonArgs := ""
	for _, arg := range args {
		buttonArgs += ":" + arg
	}

	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Previous",
					Style:    discordgo.PrimaryButton,
					Disabled: currentPage == 1,
					CustomID: fmt.Sprintf("%s:%d%s", customIDPrefix, currentPage-1, buttonArgs),
				},
				discordgo.Button{
					Label:    fmt.Sprintf("%d/%d", currentPage, totalPages),
					Style:    discordgo.SecondaryButton,
					Disabled: true,
					CustomID: customIDPrefix + ":page",
				},
				discordgo.Button{
					Label:    "Next",
					Style:    discordgo.PrimaryButton,
					Disabled: currentPage == totalPages,
					CustomID: fmt.Sprintf("%s:%d%s", customIDPrefix, currentPage+1, buttonArgs),
				},
			},
		},
	}
}
