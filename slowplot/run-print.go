package slowplot

import (
	"log"
	"path/filepath"
	"strings"
)

const digestTableHeader = "# length cum_frac   homa_count homa_p50 homa_s50 homa_p99 homa_s99 " +
	"homa_p999 homa_s999    tcp_count tcp_p50 tcp_s50 tcp_p99 tcp_s99 " +
	"tcp_p999 tcp_s999"

func printDigestTable(printer *log.Logger, homa *Digest, tcp *Digest) {
	printer.Println(digestTableHeader)

	for i := range homa.Lengths {
		if i >= len(tcp.Lengths) {
			break
		}
		printer.Printf("%7d %8.3f  %10d %8.1f %8.1f %8.1f %8.1f  %9.1f %8.1f   %10d %7.1f %7.1f %8.1f %7.1f %8.1f %8.1f\n",
			homa.Lengths[i], homa.CumFrac[i],
			homa.Counts[i], homa.P50[i], homa.Slow50[i],
			homa.P99[i], homa.Slow99[i], homa.P999[i], homa.Slow999[i],
			tcp.Counts[i], tcp.P50[i], tcp.Slow50[i],
			tcp.P99[i], tcp.Slow99[i], tcp.P999[i], tcp.Slow999[i])
	}
}

func printCDFSummary(printer *log.Logger, label string, cdf *CDF, totalMessages int) {
	if len(cdf.X) == 0 {
		printer.Printf("%s short message CDF: no samples (out of %d)\n", label, totalMessages)
		return
	}
	printer.Printf("%s short message CDF: %d points (out of %d), min %.1f, max %.1f\n",
		label, len(cdf.X)/2+1, totalMessages, cdf.X[0], cdf.X[len(cdf.X)-1])
}

// RunAndPrint reads the dump files under logDir, prints the per-bucket digest
// table and CDF summaries on printer, and writes slowdown.pdf and
// short_cdf.pdf (plus PNG copies when exportPNG is set) next to the logs.
func RunAndPrint(printer *log.Logger, logDir string, title string, exportPNG bool) error {
	printer.Println("Reading unloaded data")
	unloadedData := NewDataset()
	if err := ReadDump(filepath.Join(logDir, "unloaded.txt"), unloadedData); err != nil {
		return err
	}
	unloadedMedians := GetUnloadedMedians(unloadedData)

	printer.Println("Reading Homa data")
	homaData := NewDataset()
	if err := ReadDumpGlob(filepath.Join(logDir, "loaded-*.txt"), homaData, printer); err != nil {
		return err
	}
	buckets := GetBuckets(homaData)
	homaDigest := DigestDataset(homaData, unloadedMedians, buckets)

	printer.Println("Reading TCP data")
	tcpData := NewDataset()
	if err := ReadDumpGlob(filepath.Join(logDir, "tcp-*.txt"), tcpData, printer); err != nil {
		return err
	}
	tcpDigest := DigestDataset(tcpData, unloadedMedians, buckets)

	printDigestTable(printer, homaDigest, tcpDigest)

	slowdownChart := getSlowdownChart(title, homaDigest, tcpDigest, homaData)
	if err := writeChartPDF(filepath.Join(logDir, "slowdown.pdf"), slowdownChart); err != nil {
		return err
	}

	homaCDF := GetShortCDF(homaData)
	printCDFSummary(printer, "Homa", homaCDF, homaData.TotalMessages)
	tcpCDF := GetShortCDF(tcpData)
	printCDFSummary(printer, "TCP", tcpCDF, tcpData.TotalMessages)
	unloadedCDF := GetShortCDF(unloadedData)
	printCDFSummary(printer, "Unloaded", unloadedCDF, unloadedData.TotalMessages)

	cdfChart, err := getShortCDFChart(title, homaCDF, tcpCDF, unloadedCDF)
	if err != nil {
		return err
	}
	if err := writeChartPDF(filepath.Join(logDir, "short_cdf.pdf"), cdfChart); err != nil {
		return err
	}

	if exportPNG {
		if err := writeChartPNG(pngPath(logDir, "slowdown.pdf"), slowdownChart); err != nil {
			return err
		}
		if err := writeChartPNG(pngPath(logDir, "short_cdf.pdf"), cdfChart); err != nil {
			return err
		}
	}

	return nil
}

func pngPath(logDir string, pdfName string) string {
	return filepath.Join(logDir, strings.TrimSuffix(pdfName, ".pdf")+".png")
}
