package accounts

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/entityauth/entitykit/internal/application"
	"github.com/entityauth/entitykit/internal/domain"
)

type RenderOptions struct {
	Now time.Time
}

func renderAccounts(accounts []application.AccountSummary, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render("Accounts"),
		s.header.Render(fmt.Sprintf("accounts: %d", len(accounts))),
	}

	if len(accounts) == 0 {
		lines = append(lines, s.empty.Render("No accounts on this device."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, account := range accounts {
		lines = append(lines, s.section.Render(renderAccount(account, opts, s)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderAccount(summary application.AccountSummary, opts RenderOptions, s styles) string {
	title := s.account.Render(accountTitle(summary.Account))
	if summary.Active {
		title = s.active.Render("*") + " " + title + " " + s.active.Render("(active)")
	}

	parts := []string{
		title,
		detailLine("id", string(summary.ID), s),
		detailLine("mode", string(summary.Mode), s),
	}

	if org := activeOrganizationName(summary.Account); org != "" {
		parts = append(parts, detailLine("organization", org, s))
	}
	if len(summary.Organizations) > 0 {
		parts = append(parts, detailLine("organizations", fmt.Sprintf("%d", len(summary.Organizations)), s))
	}

	parts = append(parts, detailLine("last active", formatRelative(summary.LastActiveAt, opts.Now), s))

	if !summary.HydratedOnThisDevice {
		parts = append(parts, s.warning.Render("[sign in required on this device]"))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func renderSession(snapshot domain.Snapshot, opts RenderOptions, s styles) string {
	lines := []string{s.title.Render("Session")}

	if !snapshot.SignedIn() {
		lines = append(lines, s.empty.Render("Not signed in."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	identity := []string{
		detailLine("user", snapshot.UserID, s),
	}
	if snapshot.Username != "" {
		identity = append(identity, detailLine("username", snapshot.Username, s))
	}
	if snapshot.Email != "" {
		identity = append(identity, detailLine("email", snapshot.Email, s))
	}
	identity = append(identity, detailLine("mode", string(domain.ModeFor(snapshot.Organizations)), s))
	identity = append(identity, tokenLine(snapshot.AccessToken, opts.Now, s))
	lines = append(lines, lipgloss.JoinVertical(lipgloss.Left, identity...))

	lines = append(lines, s.section.Render(renderOrganizations(snapshot, s)))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderOrganizations(snapshot domain.Snapshot, s styles) string {
	parts := []string{s.header.Render(fmt.Sprintf("organizations: %d", len(snapshot.Organizations)))}

	active := snapshot.ActiveOrganization
	if active != nil && !containsOrganization(snapshot.Organizations, active.OrgID) {
		parts = append(parts, s.active.Render("*")+" "+s.detail.Render(active.OrgID)+" "+s.faint.Render("(not in list)"))
	}

	for _, org := range snapshot.Organizations {
		name := org.Name
		if name == "" {
			name = org.OrgID
		}

		line := s.detail.Render(name)
		if org.Role != "" {
			line += " " + s.faint.Render(org.Role)
		}
		if org.MemberCount != nil {
			line += " " + s.faint.Render(pluralize(*org.MemberCount, "member"))
		}

		if active != nil && active.OrgID == org.OrgID {
			line = s.active.Render("*") + " " + line
			if active.Description != "" {
				line += "\n  " + s.faint.Render(active.Description)
			}
		} else {
			line = "  " + line
		}
		parts = append(parts, line)
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func tokenLine(accessToken string, now time.Time, s styles) string {
	expiresAt, ok := domain.DecodeClaims(accessToken).ExpiresAt()
	if !ok {
		return detailLine("token", "no expiry", s)
	}
	if now.IsZero() {
		return detailLine("token", "expires "+expiresAt.Format(time.RFC3339), s)
	}
	if !expiresAt.After(now) {
		return s.label.Render("token:") + " " + s.warning.Render("expired")
	}

	return detailLine("token", "expires in "+formatDuration(expiresAt.Sub(now)), s)
}

func detailLine(label string, value string, s styles) string {
	return s.label.Render(label+":") + " " + s.detail.Render(value)
}

func accountTitle(account domain.Account) string {
	name := strings.TrimSpace(account.DisplayName())
	email := strings.TrimSpace(account.Email)
	if email != "" && email != name {
		return fmt.Sprintf("%s <%s>", name, email)
	}

	return name
}

func activeOrganizationName(account domain.Account) string {
	if account.ActiveOrganizationID == "" {
		return ""
	}

	for _, org := range account.Organizations {
		if org.OrgID == account.ActiveOrganizationID && org.Name != "" {
			return org.Name
		}
	}

	return account.ActiveOrganizationID
}

func containsOrganization(organizations []domain.OrganizationSummary, orgID string) bool {
	for _, org := range organizations {
		if org.OrgID == orgID {
			return true
		}
	}
	return false
}

func formatRelative(at time.Time, now time.Time) string {
	if at.IsZero() {
		return "never"
	}
	if now.IsZero() {
		return at.Format(time.RFC3339)
	}
	if !at.Before(now) {
		return "just now"
	}

	return formatDuration(now.Sub(at)) + " ago"
}

func formatDuration(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "less than a minute"
	case d < time.Hour:
		return pluralize(int(math.Floor(d.Minutes())), "minute")
	case d < 24*time.Hour:
		return pluralize(int(math.Floor(d.Hours())), "hour")
	default:
		return pluralize(int(math.Floor(d.Hours()/24)), "day")
	}
}

func pluralize(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
