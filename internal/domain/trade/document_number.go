package trade

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const documentTimeLayout = "20060102150405"

// GenerateSalesOrderNumber builds an SO-YYYYmmddHHMMSS-xxxx number
func GenerateSalesOrderNumber(now time.Time) string {
	return generateDocumentNumber("SO", now)
}

// GenerateReturnNumber builds an RTV-YYYYmmddHHMMSS-xxxx number
func GenerateReturnNumber(now time.Time) string {
	return generateDocumentNumber("RTV", now)
}

func generateDocumentNumber(prefix string, now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:4])
	return fmt.Sprintf("%s-%s-%s", prefix, now.Format(documentTimeLayout), suffix)
}
