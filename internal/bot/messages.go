package bot

import (
	"fmt"
	"html"
	"strings"

	"github.com/sid743/TG-cloud-storage/internal/file"
)

// User-facing reply texts. Everything is HTML parse mode; any user-derived
// string must pass through html.EscapeString before interpolation.
const (
	msgWelcome = "👋 Welcome! Send me files to store them."

	msgUnsupported = "❌ Unknown file type. Send a document, video, photo or audio."

	msgLaneFailed = "❌ Error creating storage topic. Is the bot an admin in the storage group?"

	msgRelayFailed = "❌ Storage error. Your file was not saved, please try again."

	msgSaveFailed = "❌ Could not save your file, please try again."

	msgDeliveryFailed = "❌ Could not send your file, please try again."

	msgNotFound = "❌ File not found."

	msgProtected = "🔒 <b>File is protected.</b> Request sent to owner..."

	msgOwnerUnreachable = "❌ Could not contact file owner."

	msgNoFiles = "📂 You have no files stored."
)

func savedMessage(displayName, link string) string {
	return fmt.Sprintf(
		"✅ <b>Saved:</b> %s\n🔗 <b>Link:</b> %s\n\n<i>Only you can access this. Sharing this link triggers an access request.</i>",
		html.EscapeString(displayName), link,
	)
}

func fileListMessage(files []file.StoredFile, linkFor func(code string) string) string {
	var sb strings.Builder
	sb.WriteString("📂 <b>Your Files:</b>\n\n")
	for _, f := range files {
		fmt.Fprintf(&sb, "🔹 <a href=\"%s\">%s</a> (%s)\n",
			linkFor(f.Code), html.EscapeString(f.DisplayName), f.Kind)
	}
	return sb.String()
}
