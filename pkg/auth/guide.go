package auth

import (
	"fmt"
	"io"
	"strings"
)

// ShowTokenGuide writes step-by-step instructions for obtaining the
// VK and Yandex.Disk tokens the tool needs
func ShowTokenGuide(w io.Writer) {
	line := strings.Repeat("=", 80)

	fmt.Fprintln(w, line)
	fmt.Fprintln(w, "📚 ACCESS TOKEN GUIDE")
	fmt.Fprintln(w, line)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "🔑 VK access token (vk_token)")
	fmt.Fprintln(w, "   1. Create a standalone app at https://vk.com/apps?act=manage")
	fmt.Fprintln(w, "   2. Open the implicit flow URL with scope=photos,friends:")
	fmt.Fprintln(w, "      https://oauth.vk.com/authorize?client_id=<APP_ID>&display=page&scope=photos,friends&response_type=token&v=5.131")
	fmt.Fprintln(w, "   3. Copy the access_token=... value from the redirect address")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "💾 Yandex.Disk OAuth token (ya_token)")
	fmt.Fprintln(w, "   1. Open https://yandex.ru/dev/disk/poligon/")
	fmt.Fprintln(w, "   2. Press 'Get OAuth token' and copy the value")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "⚠️  SECURITY WARNING:")
	fmt.Fprintln(w, "   • Tokens give access to your photos and your Disk")
	fmt.Fprintln(w, "   • NEVER share them with anyone")
	fmt.Fprintln(w, "   • Stored tokens are kept in the system keychain or an encrypted file")
	fmt.Fprintln(w)
	fmt.Fprintln(w, line)
}
