package handlers

import (
	"fmt"
	"runtime"
	"time"

	"discord-modbot/bot"
	"discord-modbot/model"
	"discord-modbot/utils"

	"github.com/bwmarrin/discordgo"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

// databaseSize returns the sqlite file size in bytes.
func databaseSize(b model.Bot) (int64, error) {
	var pages, pageSize int64
	if err := b.GetDB().Get(&pages, "PRAGMA page_count"); err != nil {
		return 0, err
	}
	if err := b.GetDB().Get(&pageSize, "PRAGMA page_size"); err != nil {
		return 0, err
	}
	return pages * pageSize, nil
}

func SystemInfoHandler(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	if err := utils.DeferResponse(s, i, true); err != nil {
		logger.WithError(err).Error("deferring botinfo")
		return
	}

	cpuCount, _ := cpu.Counts(true)
	cpuPercent, _ := cpu.Percent(0, false)
	vm, _ := mem.VirtualMemory()
	hostInfo, _ := host.Info()

	dbSize, err := databaseSize(b)
	if err != nil {
		logger.WithError(err).Warn("reading database size")
	}

	fields := []*discordgo.MessageEmbedField{
		{Name: "🐹 Go", Value: runtime.Version(), Inline: true},
		{Name: "🚀 Goroutines", Value: fmt.Sprint(runtime.NumGoroutine()), Inline: true},
		{Name: "⏱️ Gateway latency", Value: s.HeartbeatLatency().String(), Inline: true},
		{Name: "🔼 CPUs", Value: fmt.Sprint(cpuCount), Inline: true},
		{Name: "🗃️ Database", Value: fmt.Sprintf("%.1f MB", float64(dbSize)/1024/1024), Inline: true},
	}
	if hostInfo != nil {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name: "💻 OS", Value: fmt.Sprintf("%s %s", hostInfo.Platform, hostInfo.PlatformVersion), Inline: true,
		})
	}
	if len(cpuPercent) > 0 {
		fields = append(fields, &discordgo.MessageEmbedField{Name: "🔥 CPU usage", Value: fmt.Sprintf("%.1f%%", cpuPercent[0]), Inline: true})
	}
	if vm != nil {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:   "🧠 Memory",
			Value:  fmt.Sprintf("%.1f%% (%d MB / %d MB)", vm.UsedPercent, vm.Used/1024/1024, vm.Total/1024/1024),
			Inline: true,
		})
	}

	stats := b.Moderation().Stats()
	fields = append(fields,
		&discordgo.MessageEmbedField{Name: "🌍 Guilds tracked", Value: fmt.Sprint(stats.Guilds), Inline: true},
		&discordgo.MessageEmbedField{Name: "🔒 Active lockdowns", Value: fmt.Sprint(stats.ActiveLockdowns), Inline: true},
		&discordgo.MessageEmbedField{Name: "⏳ Pending temp actions", Value: fmt.Sprint(stats.PendingTempActions), Inline: true},
	)
	if !stats.NextExpiry.IsZero() {
		fields = append(fields, &discordgo.MessageEmbedField{Name: "⏰ Next expiry", Value: fmt.Sprintf("<t:%d:R>", stats.NextExpiry.Unix()), Inline: true})
	}

	embed := &discordgo.MessageEmbed{
		Title:  "System Information",
		Color:  0x5865F2,
		Fields: fields,
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Uptime " + utils.FormatDuration(time.Since(b.StartedAt)),
		},
	}

	embeds := []*discordgo.MessageEmbed{embed}
	if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{Embeds: &embeds}); err != nil {
		logger.WithError(err).Error("sending botinfo")
	}
}

func handleReload(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	if err := utils.DeferResponse(s, i, true); err != nil {
		logger.WithError(err).Error("deferring reload")
		return
	}
	if err := b.ReloadConfig(); err != nil {
		utils.SendFollowUpError(s, i.Interaction, "Reload failed: "+err.Error())
		return
	}
	utils.SendFollowUp(s, i.Interaction, "✅ Configuration reloaded.")
}
