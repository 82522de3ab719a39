package model

// BlockConfig describes one stage of the network: a run of NumBlocks
// blocks sharing an expansion ratio and target width. Only the first
// block of a stage applies Stride (and the Transition flag); the rest
// use stride 1.
type BlockConfig struct {
	ExpandRatio int
	Channels    int
	NumBlocks   int
	Stride      int
	Transition  bool
}

// i2rNetStages is the stage table for the base network (18 blocks).
var i2rNetStages = []BlockConfig{
	{ExpandRatio: 2, Channels: 96, NumBlocks: 1, Stride: 2},
	{ExpandRatio: 4, Channels: 96, NumBlocks: 2, Stride: 1},
	{ExpandRatio: 4, Channels: 128, NumBlocks: 1, Stride: 1},
	{ExpandRatio: 4, Channels: 128, NumBlocks: 2, Stride: 2},
	{ExpandRatio: 4, Channels: 256, NumBlocks: 1, Stride: 1},
	{ExpandRatio: 4, Channels: 256, NumBlocks: 2, Stride: 2},
	{ExpandRatio: 4, Channels: 384, NumBlocks: 4, Stride: 1},
	{ExpandRatio: 4, Channels: 640, NumBlocks: 1, Stride: 1},
	{ExpandRatio: 4, Channels: 640, NumBlocks: 2, Stride: 2},
	{ExpandRatio: 4, Channels: 1280, NumBlocks: 2, Stride: 1},
}

// i2rNetV2Stages is the stage table for the V2 variant (15 blocks). The
// 384-channel transition stage forces the bottleneck-only block shape at
// a stage boundary where channel count does not change.
var i2rNetV2Stages = []BlockConfig{
	{ExpandRatio: 2, Channels: 96, NumBlocks: 1, Stride: 2},
	{ExpandRatio: 4, Channels: 96, NumBlocks: 1, Stride: 1},
	{ExpandRatio: 4, Channels: 128, NumBlocks: 3, Stride: 2},
	{ExpandRatio: 4, Channels: 256, NumBlocks: 2, Stride: 2},
	{ExpandRatio: 4, Channels: 384, NumBlocks: 2, Stride: 1},
	{ExpandRatio: 4, Channels: 384, NumBlocks: 2, Stride: 1, Transition: true},
	{ExpandRatio: 4, Channels: 640, NumBlocks: 2, Stride: 2},
	{ExpandRatio: 4, Channels: 1280, NumBlocks: 2, Stride: 1},
}
