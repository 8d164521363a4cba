package notifier

import (
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"
	"github.com/munna7487/club-sphere-server/internal/models"
)

// Notifier announces noteworthy state changes to an ops channel. Failures
// are logged and never fail the request that triggered them.
type Notifier interface {
	NotifyClubSubmitted(club models.Club) error
	NotifyPayment(payment models.Payment, displayName string) error
}

type DiscordNotifier struct {
	session   *discordgo.Session
	channelID string
}

func NewDiscordNotifier(session *discordgo.Session, channelID string) *DiscordNotifier {
	return &DiscordNotifier{
		session:   session,
		channelID: channelID,
	}
}

func (n *DiscordNotifier) NotifyClubSubmitted(club models.Club) error {
	if n.session == nil {
		return fmt.Errorf("discord session is nil")
	}
	if n.channelID == "" {
		return fmt.Errorf("discord channel ID is empty")
	}

	message := fmt.Sprintf("🏛️ **New Club Submitted**\n**Name:** %s\n**Creator:** %s\n**Membership Fee:** %.2f\nAwaiting payment and approval.",
		club.Name,
		club.CreatorEmail,
		float64(club.FeeCents)/100,
	)

	_, err := n.session.ChannelMessageSend(n.channelID, message)
	if err != nil {
		log.Printf("Failed to send discord message: %v", err)
		return err
	}

	return nil
}

func (n *DiscordNotifier) NotifyPayment(payment models.Payment, displayName string) error {
	if n.session == nil {
		return fmt.Errorf("discord session is nil")
	}
	if n.channelID == "" {
		return fmt.Errorf("discord channel ID is empty")
	}

	message := fmt.Sprintf("💳 **Payment Confirmed**\n**Subject:** %s (%s)\n**Payer:** %s\n**Amount:** %.2f %s",
		displayName,
		payment.Kind,
		payment.Email,
		payment.Amount(),
		payment.Currency,
	)

	_, err := n.session.ChannelMessageSend(n.channelID, message)
	if err != nil {
		log.Printf("Failed to send discord message: %v", err)
		return err
	}

	return nil
}
