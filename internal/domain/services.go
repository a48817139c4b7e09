package domain

// DownloadService is a third-party site the user can download from manually
type DownloadService struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	Description string `json:"desc"`
}

// ServicesFor returns the fixed list of external services for a platform.
// A fresh slice is returned on every call.
func ServicesFor(platform Platform) []DownloadService {
	switch platform {
	case PlatformYouTube:
		return []DownloadService{
			{Name: "Y2Mate", URL: "https://www.y2mate.com/en/youtube-downloader", Description: "Free YouTube downloader"},
			{Name: "SS YouTube DL", URL: "https://www.ssyoutube.com/", Description: "Fast downloads"},
			{Name: "Loader.to", URL: "https://loader.to/", Description: "Reliable downloader"},
		}
	case PlatformInstagram:
		return []DownloadService{
			{Name: "SaveInsta", URL: "https://saveinsta.io/", Description: "Free Instagram downloader"},
			{Name: "Insta Downloader", URL: "https://instadownloader.io/", Description: "Posts and reels"},
		}
	default:
		return nil
	}
}
