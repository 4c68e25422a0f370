package main

import (
	"strings"

	"github.com/spf13/cobra"
)

var tweetCmd = &cobra.Command{
	Use:   "tweet",
	Short: "Post and manage tweets",
}

var postTweetCmd = &cobra.Command{
	Use:   "post <content>",
	Short: "Post a tweet on your channel",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := apiRequest("POST", "/api/v1/tweets", map[string]string{
			"content": strings.Join(args, " "),
		})
		if err != nil {
			return err
		}
		return printResult(env)
	},
}

var deleteTweetCmd = &cobra.Command{
	Use:   "delete <tweetId>",
	Short: "Delete a tweet you own",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := apiRequest("DELETE", "/api/v1/tweets/"+args[0], nil)
		if err != nil {
			return err
		}
		return printResult(env)
	},
}

func init() {
	tweetCmd.AddCommand(postTweetCmd)
	tweetCmd.AddCommand(deleteTweetCmd)
}
