// package webclient drives the library's import form and collection lists against the JSON API.
//
// The handlers talk to an HTTP [Requester] and to render targets ([FormView], [Region]) through
// interfaces, so the same code runs behind the server-rendered pages, the CLI and the terminal UI.
// A [Controller] owns the event subscriptions that connect them to a [Dispatcher].
package webclient
