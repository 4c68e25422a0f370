package main

import (
	"github.com/spf13/cobra"
)

var channelCmd = &cobra.Command{
	Use:   "channel",
	Short: "Inspect channels and manage subscriptions",
}

var channelProfileCmd = &cobra.Command{
	Use:   "get <username>",
	Short: "Show a channel's profile and subscriber counts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := apiRequest("GET", "/api/v1/users/c/"+args[0], nil)
		if err != nil {
			return err
		}
		return printResult(env)
	},
}

var subscribeCmd = &cobra.Command{
	Use:   "subscribe <channelId>",
	Short: "Toggle your subscription to a channel",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := apiRequest("POST", "/api/v1/subscriptions/c/"+args[0], nil)
		if err != nil {
			return err
		}
		return printResult(env)
	},
}

var subscribersCmd = &cobra.Command{
	Use:   "subscribers <channelId>",
	Short: "List a channel's subscribers",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := apiRequest("GET", "/api/v1/subscriptions/c/"+args[0], nil)
		if err != nil {
			return err
		}
		return printResult(env)
	},
}

func init() {
	channelCmd.AddCommand(channelProfileCmd)
	channelCmd.AddCommand(subscribeCmd)
	channelCmd.AddCommand(subscribersCmd)
}
