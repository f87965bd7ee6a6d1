// Package scan reads logs written by package log back into records.
//
// A log can be sliced by tag, profiled by the elapsed times of its leave
// lines, or rebuilt into the call tree its trace lines describe:
//
//	rc, err := scan.Open("demo_20121115.log.zst")
//	if err != nil {
//		return err
//	}
//	defer rc.Close()
//
//	recs, err := scan.Collect(scan.Select(scan.Read(rc), scan.Filter(log.TagTrace)))
//	for _, s := range scan.Profile(recs) {
//		fmt.Println(s.Frame, s.Calls, s.Total)
//	}
package scan
