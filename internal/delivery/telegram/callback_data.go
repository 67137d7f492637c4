package telegram

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aliskhannn/study-material-bot/internal/domain/entities"
	"github.com/aliskhannn/study-material-bot/internal/domain/workspace"
)

// Callback action constants.
const (
	actionGenerate = "gen"
	actionCancel   = "cancel"
	actionTab      = "tab"
	actionAnswer   = "ans"
	actionPage     = "page"
	actionNoop     = "noop"
)

// callbackData represents structured callback data.
type callbackData struct {
	Action string
	Params []string
	Raw    string
}

// encode creates callback string.
func (cd callbackData) encode() string {
	if len(cd.Params) == 0 {
		return cd.Action
	}
	return cd.Action + ":" + strings.Join(cd.Params, ":")
}

// decodeCallback parses callback data string.
func decodeCallback(data string) callbackData {
	parts := strings.Split(data, ":")
	return callbackData{
		Action: parts[0],
		Params: parts[1:],
		Raw:    data,
	}
}

func buildGenerateCallback() string {
	return callbackData{Action: actionGenerate}.encode()
}

func buildCancelCallback() string {
	return callbackData{Action: actionCancel}.encode()
}

func buildNoopCallback() string {
	return callbackData{Action: actionNoop}.encode()
}

// buildTabCallback builds callback data for switching the active tab.
func buildTabCallback(tab workspace.Tab) string {
	return callbackData{
		Action: actionTab,
		Params: []string{string(tab)},
	}.encode()
}

// buildAnswerCallback builds callback data for answering a quiz item.
func buildAnswerCallback(item int, label entities.Label) string {
	return callbackData{
		Action: actionAnswer,
		Params: []string{strconv.Itoa(item), string(label)},
	}.encode()
}

// buildPageCallback builds callback data for showing another item of a tab.
func buildPageCallback(tab workspace.Tab, index int) string {
	return callbackData{
		Action: actionPage,
		Params: []string{string(tab), strconv.Itoa(index)},
	}.encode()
}

func (cd callbackData) tab() (workspace.Tab, error) {
	if len(cd.Params) < 1 {
		return "", fmt.Errorf("callback %q: missing tab", cd.Raw)
	}
	t := workspace.Tab(cd.Params[0])
	if !t.Valid() {
		return "", fmt.Errorf("callback %q: unknown tab", cd.Raw)
	}
	return t, nil
}

func (cd callbackData) answer() (int, entities.Label, error) {
	if len(cd.Params) != 2 {
		return 0, "", fmt.Errorf("callback %q: want item and label", cd.Raw)
	}
	item, err := strconv.Atoi(cd.Params[0])
	if err != nil || item < 0 {
		return 0, "", fmt.Errorf("callback %q: bad item", cd.Raw)
	}
	label := entities.Label(cd.Params[1])
	if !label.Valid() {
		return 0, "", fmt.Errorf("callback %q: bad label", cd.Raw)
	}
	return item, label, nil
}

func (cd callbackData) page() (workspace.Tab, int, error) {
	if len(cd.Params) != 2 {
		return "", 0, fmt.Errorf("callback %q: want tab and index", cd.Raw)
	}
	t, err := cd.tab()
	if err != nil {
		return "", 0, err
	}
	idx, err := strconv.Atoi(cd.Params[1])
	if err != nil {
		return "", 0, fmt.Errorf("callback %q: bad index", cd.Raw)
	}
	return t, idx, nil
}
