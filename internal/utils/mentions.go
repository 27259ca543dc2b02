package utils

import "fmt"

func UserMention(id string) string {
	return fmt.Sprintf("<@%s>", id)
}

func ChannelMention(id string) string {
	return fmt.Sprintf("<#%s>", id)
}

func RoleMention(id string) string {
	return fmt.Sprintf("<@&%s>", id)
}
