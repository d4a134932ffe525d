// internal/middleware/i18n.go
package middleware

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"

	"github.com/javajoker/solar-catalog/internal/i18n"
	"github.com/javajoker/solar-catalog/internal/utils"
)

// supportedLanguages are the message catalogs shipped in i18n/locales.
var supportedLanguages = []language.Tag{language.French, language.English}

var languageMatcher = language.NewMatcher(supportedLanguages)

func I18nMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(utils.ContextLang, resolveLanguage(c.GetHeader("Accept-Language")))
		c.Next()
	}
}

// resolveLanguage picks the best supported language of an Accept-Language
// header such as "fr-FR,fr;q=0.9,en;q=0.8".
func resolveLanguage(header string) string {
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return i18n.DefaultLanguage()
	}
	_, index, confidence := languageMatcher.Match(tags...)
	if confidence == language.No {
		return i18n.DefaultLanguage()
	}
	base, _ := supportedLanguages[index].Base()
	return base.String()
}
