// Package core contains the origin integration domain contracts and the request
// handling gateway. It validates and authorizes each operation, encrypts the
// integration payload and forwards typed requests to the backend record store
// through the Requester contracts. Transport, persistence and crypto adapters
// depend on this package; core must not depend on them.
package core
