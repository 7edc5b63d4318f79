package main

const (
	profileCPU = "cpu"
	profileMem = "mem"

	// poolQueueSize of one lets the scheduler skip ticks while a pass is still running
	poolQueueSize = 1
)

const (
	logMsgEventSystemFailed = "Failed to initialize event system"
	logMsgRunning           = "Armory running"
)
