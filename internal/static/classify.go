package static

import "strings"

var contentTypes = map[string]string{
	"js":   "application/javascript",
	"txt":  "text/plain",
	"gif":  "image/gif",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"pdf":  "application/pdf",
	"zip":  "application/zip",
	"mp3":  "audio/mpeg",
	"wav":  "audio/wav",
}

// Classify 按扩展名（不区分大小写）给出 Content-Type；未知扩展名回落到 text/<ext>，
// 没有扩展名时是 text/plain。
func Classify(fileName string) string {
	dot := strings.LastIndexByte(fileName, '.')
	if dot < 0 || dot == len(fileName)-1 {
		return "text/plain"
	}
	ext := strings.ToLower(fileName[dot+1:])
	if ct, ok := contentTypes[ext]; ok {
		return ct
	}
	return "text/" + ext
}
