package ledger

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// Contract method names from the TarotReader ABI
const (
	MethodGetRandomNumber          = "getRandomNumber"
	MethodDrawTarotCard            = "drawTarotCard"
	MethodDrawMultipleCards        = "drawMultipleCards"
	MethodStartReading             = "startReading"
	MethodPerformReading           = "performReading"
	MethodCompleteReading          = "completeReading"
	MethodSubscribeToDailyReadings = "subscribeToDailyReadings"
	MethodGetDailyReading          = "getDailyReading"
	MethodSetFavoriteSpread        = "setFavoriteSpread"
	MethodGetUserProfile           = "getUserProfile"
	MethodGetReadingSession        = "getReadingSession"
)

//go:embed abi/TarotReader.json
var tarotReaderABI string

var (
	parsedOnce sync.Once
	parsedABI  abi.ABI
	parseErr   error
)

// ABI returns the parsed TarotReader contract ABI
func ABI() (abi.ABI, error) {
	parsedOnce.Do(func() {
		parsedABI, parseErr = abi.JSON(strings.NewReader(tarotReaderABI))
		if parseErr != nil {
			parseErr = fmt.Errorf("parse TarotReader ABI: %w", parseErr)
		}
	})
	return parsedABI, parseErr
}
