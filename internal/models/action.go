package models

import "net/http"

// Action is the closed set of API operations. It is resolved once at the
// HTTP boundary and switched on exhaustively afterwards.
type Action int

const (
	ActionUnknown Action = iota
	ActionCreate
	ActionUpload
	ActionGet
	ActionVerifyGet
	ActionRaw
	ActionImg
	ActionList
	ActionDelete
)

var actionNames = map[Action]string{
	ActionCreate:    "create",
	ActionUpload:    "upload",
	ActionGet:       "get",
	ActionVerifyGet: "verify",
	ActionRaw:       "raw",
	ActionImg:       "img",
	ActionList:      "list",
	ActionDelete:    "delete",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "unknown"
}

// RequiresAuth reports whether the action needs a valid API key.
func (a Action) RequiresAuth() bool {
	switch a {
	case ActionCreate, ActionUpload, ActionList, ActionDelete:
		return true
	default:
		return false
	}
}

// ResolveAction maps an HTTP method, action name and verify flag onto an Action.
// Known names used with the wrong method report methodAllowed=false.
func ResolveAction(method, name string, verify bool) (action Action, methodAllowed bool) {
	switch name {
	case "create":
		return ActionCreate, method == http.MethodPost
	case "upload":
		return ActionUpload, method == http.MethodPost
	case "get":
		if method == http.MethodPost && verify {
			return ActionVerifyGet, true
		}
		return ActionGet, method == http.MethodGet
	case "raw":
		return ActionRaw, method == http.MethodGet
	case "img":
		return ActionImg, method == http.MethodGet
	case "list":
		return ActionList, method == http.MethodGet
	case "delete":
		return ActionDelete, method == http.MethodDelete
	default:
		return ActionUnknown, false
	}
}
