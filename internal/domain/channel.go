package domain

// Video is a featured upload shown on the dashboard.
type Video struct {
	Title     string `json:"title"`
	Thumbnail string `json:"thumbnail"`
	ID        string `json:"id"`
}

// ChannelData is the channel summary rendered by the dashboard.
type ChannelData struct {
	Subscribers    int     `json:"subscribers"`
	ChannelName    string  `json:"channelName"`
	WelcomeMessage string  `json:"welcomeMessage"`
	Videos         []Video `json:"videos"`
}
