package main

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"
)

var (
	videoQuery  string
	videoSortBy string
	videoPage   int
	videoLimit  int
)

var videosCmd = &cobra.Command{
	Use:   "videos",
	Short: "Browse and manage videos",
}

var listVideosCmd = &cobra.Command{
	Use:   "list",
	Short: "List videos, optionally filtered by a search query",
	RunE: func(cmd *cobra.Command, args []string) error {
		params := url.Values{}
		params.Set("page", fmt.Sprint(videoPage))
		params.Set("limit", fmt.Sprint(videoLimit))
		if videoQuery != "" {
			params.Set("query", videoQuery)
		}
		if videoSortBy != "" {
			params.Set("sortBy", videoSortBy)
		}

		env, err := apiRequest("GET", "/api/v1/videos?"+params.Encode(), nil)
		if err != nil {
			return err
		}
		return printResult(env)
	},
}

var getVideoCmd = &cobra.Command{
	Use:   "get <videoId>",
	Short: "Fetch a single video by id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := apiRequest("GET", "/api/v1/videos/"+args[0], nil)
		if err != nil {
			return err
		}
		return printResult(env)
	},
}

var likeVideoCmd = &cobra.Command{
	Use:   "like <videoId>",
	Short: "Toggle your like on a video",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := apiRequest("POST", "/api/v1/likes/toggle/v/"+args[0], nil)
		if err != nil {
			return err
		}
		return printResult(env)
	},
}

var deleteVideoCmd = &cobra.Command{
	Use:   "delete <videoId>",
	Short: "Delete a video you own",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := apiRequest("DELETE", "/api/v1/videos/"+args[0], nil)
		if err != nil {
			return err
		}
		return printResult(env)
	},
}

func init() {
	listVideosCmd.Flags().StringVar(&videoQuery, "query", "", "Search in title and description")
	listVideosCmd.Flags().StringVar(&videoSortBy, "sort", "", "Sort key: createdAt, views, duration, title")
	listVideosCmd.Flags().IntVar(&videoPage, "page", 1, "Page number")
	listVideosCmd.Flags().IntVar(&videoLimit, "limit", 10, "Page size")

	videosCmd.AddCommand(listVideosCmd)
	videosCmd.AddCommand(getVideoCmd)
	videosCmd.AddCommand(likeVideoCmd)
	videosCmd.AddCommand(deleteVideoCmd)
}
