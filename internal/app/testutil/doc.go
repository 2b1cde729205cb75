// Package testutil provides test doubles shared by the videomasa packages.
//
// It contains three groups of helpers:
//
// 1. Fake command runner (fake_runner.go):
//   - FakeRunner: scripted tools.CommandRunner keyed by binary name
//   - YtDlp, Whisper, FFmpeg: handlers that write the files the real tools would
//   - Fail, Block, Gated: handlers for error, timeout and ordering scenarios
//
// 2. Fixtures (fixtures.go):
//   - HelloOutput: one-segment whisper sidecar {start:0, end:5, text:"hello"}
//   - SampleTranscriptions: history rows
//
// 3. Database helpers (db_helpers.go):
//   - TempSQLitePath: a throwaway SQLite file removed with the test
//
// # Usage
//
//	runner := testutil.NewFakeRunner().
//		Handle("yt-dlp", testutil.YtDlp("Test Video")).
//		Handle("whisper", testutil.Whisper(testutil.HelloOutput()))
package testutil
