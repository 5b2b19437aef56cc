/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package rpc exposes a ledger engine over HTTP and provides the matching
// client, so registry writers can talk to a node process the same way they
// talk to an in-process engine.
package rpc

import (
	"context"
	"errors"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/labstack/echo/v4"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	"github.com/trustbloc/logutil-go/pkg/log"

	"github.com/trustbloc/besu-vdr/internal/logfields"
	"github.com/trustbloc/besu-vdr/pkg/ledger"
)

var logger = log.New("ledger-rpc")

// Backend is the engine surface the server exposes.
type Backend interface {
	Submit(ctx context.Context, tx *ledger.Transaction) ([]byte, error)
	Call(ctx context.Context, to common.Address, data []byte) ([]byte, error)
	GetReceipt(ctx context.Context, hash []byte) (string, error)
	QueryEvents(ctx context.Context, query *ledger.EventQuery) ([]ledger.Event, error)
	Ping(ctx context.Context) (*ledger.PingStatus, error)
	TransactionCount(ctx context.Context, account common.Address) (uint64, error)
}

type submitResponse struct {
	TxHash string `json:"transactionHash"`
}

type callRequest struct {
	To   common.Address `json:"to"`
	Data []byte         `json:"data"`
}

type callResponse struct {
	Result []byte `json:"result"`
}

type countResponse struct {
	Count uint64 `json:"count"`
}

type errorResponse struct {
	Message string `json:"message"`
}

// Server routes node HTTP requests to a ledger backend.
type Server struct {
	backend Backend
}

// Register mounts the node endpoints on an echo instance.
func Register(e *echo.Echo, backend Backend) *Server {
	s := &Server{backend: backend}

	e.POST("/transactions", s.submit)
	e.POST("/calls", s.call)
	e.POST("/events", s.queryEvents)
	e.GET("/receipts/:hash", s.getReceipt)
	e.GET("/accounts/:address/count", s.transactionCount)
	e.GET("/ping", s.ping)

	return s
}

func (s *Server) submit(c echo.Context) error {
	var tx ledger.Transaction

	if err := c.Bind(&tx); err != nil {
		return c.JSON(http.StatusBadRequest, &errorResponse{Message: err.Error()})
	}

	hash, err := s.backend.Submit(c.Request().Context(), &tx)
	if err != nil {
		return c.JSON(http.StatusBadRequest, &errorResponse{Message: err.Error()})
	}

	logger.Debug("transaction accepted", logfields.WithTxHash(ledger.HashHex(hash)))

	return c.JSON(http.StatusOK, &submitResponse{TxHash: ledger.HashHex(hash)})
}

func (s *Server) call(c echo.Context) error {
	var req callRequest

	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, &errorResponse{Message: err.Error()})
	}

	result, err := s.backend.Call(c.Request().Context(), req.To, req.Data)
	if err != nil {
		return c.JSON(http.StatusBadRequest, &errorResponse{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, &callResponse{Result: result})
}

func (s *Server) queryEvents(c echo.Context) error {
	var query ledger.EventQuery

	if err := c.Bind(&query); err != nil {
		return c.JSON(http.StatusBadRequest, &errorResponse{Message: err.Error()})
	}

	events, err := s.backend.QueryEvents(c.Request().Context(), &query)
	if err != nil {
		return c.JSON(http.StatusBadRequest, &errorResponse{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, events)
}

func (s *Server) getReceipt(c echo.Context) error {
	hash, err := ledger.HashFromHex(c.Param("hash"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, &errorResponse{Message: err.Error()})
	}

	receiptJSON, err := s.backend.GetReceipt(c.Request().Context(), hash)
	if err != nil {
		if errors.Is(err, ledger.ErrReceiptNotFound) {
			return c.JSON(http.StatusNotFound, &errorResponse{Message: err.Error()})
		}

		return c.JSON(http.StatusBadRequest, &errorResponse{Message: err.Error()})
	}

	return c.JSONBlob(http.StatusOK, []byte(s.withConfirmations(c.Request().Context(), receiptJSON)))
}

// withConfirmations annotates a receipt with the number of blocks mined since
// it was included. The receipt is returned untouched if the chain head cannot
// be read.
func (s *Server) withConfirmations(ctx context.Context, receiptJSON string) string {
	head, err := s.backend.Ping(ctx)
	if err != nil || !head.Ok {
		return receiptJSON
	}

	block := gjson.Get(receiptJSON, "blockNumber").Uint()
	if block == 0 || block > head.BlockNumber {
		return receiptJSON
	}

	annotated, err := sjson.Set(receiptJSON, "confirmations", head.BlockNumber-block+1)
	if err != nil {
		return receiptJSON
	}

	return annotated
}

func (s *Server) transactionCount(c echo.Context) error {
	account := common.HexToAddress(c.Param("address"))

	count, err := s.backend.TransactionCount(c.Request().Context(), account)
	if err != nil {
		return c.JSON(http.StatusBadRequest, &errorResponse{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, &countResponse{Count: count})
}

func (s *Server) ping(c echo.Context) error {
	status, err := s.backend.Ping(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, &errorResponse{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, status)
}
