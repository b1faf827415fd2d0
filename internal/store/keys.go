package store

import "fmt"

func requestKey(id string) string {
	return fmt.Sprintf("rights:request:%s", id)
}

func unassignedKey() string {
	return "rights:unassigned"
}

func terminalKey() string {
	return "rights:terminal"
}

func submitterKey(email string) string {
	return fmt.Sprintf("rights:submitter:%s", email)
}

func assigneeKey(email string) string {
	return fmt.Sprintf("rights:assignee:%s", email)
}

func rosterUserKey(email string) string {
	return fmt.Sprintf("roster:user:%s", email)
}

func rosterEmailsKey() string {
	return "roster:emails"
}

func inboxHashKey(email string) string {
	return fmt.Sprintf("inbox:entries:%s", email)
}

func inboxOrderKey(email string) string {
	return fmt.Sprintf("inbox:order:%s", email)
}

func inboxUnreadKey(email string) string {
	return fmt.Sprintf("inbox:unread:%s", email)
}
