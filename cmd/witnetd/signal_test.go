// Copyright (c) 2017-2018 The qitmeer developers

package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestShutdownRequestClosesInterrupt(t *testing.T) {
	interrupt := interruptListener()
	assert.False(t, interruptRequested(interrupt))

	select {
	case shutdownRequestChannel <- struct{}{}:
	case <-time.After(time.Second):
		t.Fatal("interrupt listener is not running")
	}

	select {
	case <-interrupt:
	case <-time.After(time.Second):
		t.Fatal("shutdown request did not close the interrupt channel")
	}
	assert.True(t, interruptRequested(interrupt))
}
