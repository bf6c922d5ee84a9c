package common

import (
	"flag"
)

var EnableDebug bool = false

// LogLevelSetting is bitmask of LogLevel which ShPrintf outputs
var LogLevelSetting = INFO | WARN | ERROR | FATAL //| EXPR_DISPATCH | DEBUG_INFO | DEBUGGING

// materialize operands of comparison through filter adapter when filter is passed
var EnableVectorPredicateShortCircuit = true

// compare directly from accessor when operand is a plain attribute
var EnableVectorCopyElisionSelection = true

const (
	// invalid attribute id
	InvalidAttributeID = -1
	// default number of goroutines which evaluate blocks concurrently
	DefaultWorkerNum = 4
	// false positive probability of bloom filters built by index and join
	BloomFilterFalsePositiveRate = 0.01
	// default number of tuples stored in one block
	DefaultBlockCapacity = 1024
)

// Config holds settings which can be given from command line
type Config struct {
	WorkerNum          int
	BlockCapacity      int
	ShortCircuit       bool
	CopyElision        bool
	Debug              bool
	LogDispatch        bool
	BloomFalsePositive float64
}

func NewConfig() *Config {
	return &Config{
		WorkerNum:          DefaultWorkerNum,
		BlockCapacity:      DefaultBlockCapacity,
		ShortCircuit:       EnableVectorPredicateShortCircuit,
		CopyElision:        EnableVectorCopyElisionSelection,
		Debug:              EnableDebug,
		BloomFalsePositive: BloomFilterFalsePositiveRate,
	}
}

// RegisterFlags registers flags of Config to f
func (cfg *Config) RegisterFlags(f *flag.FlagSet) {
	f.IntVar(&cfg.WorkerNum, "engine.worker-num", DefaultWorkerNum, "Number of goroutines which evaluate blocks concurrently.")
	f.IntVar(&cfg.BlockCapacity, "engine.block-capacity", DefaultBlockCapacity, "Number of tuples stored in one block.")
	f.BoolVar(&cfg.ShortCircuit, "expr.short-circuit", true, "Evaluate operands of comparison only on tuples which passed the filter.")
	f.BoolVar(&cfg.CopyElision, "expr.copy-elision", true, "Compare attribute values directly from the accessor.")
	f.BoolVar(&cfg.Debug, "debug", false, "Dump goroutine stacks on fatal errors.")
	f.BoolVar(&cfg.LogDispatch, "expr.log-dispatch", false, "Log evaluation strategy chosen for each comparison.")
	f.Float64Var(&cfg.BloomFalsePositive, "index.bloom-fp-rate", BloomFilterFalsePositiveRate, "False positive probability of bloom filters.")
}

// Apply reflects cfg to package level settings
func (cfg *Config) Apply() {
	EnableVectorPredicateShortCircuit = cfg.ShortCircuit
	EnableVectorCopyElisionSelection = cfg.CopyElision
	EnableDebug = cfg.Debug
	if cfg.LogDispatch {
		LogLevelSetting |= EXPR_DISPATCH | DEBUG_INFO
	}
}
