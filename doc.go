// Package proofa exports receipts, invoices and orders as PNG images and
// PDFs, and shares them, using headless Chrome.
//
// # Quick Start
//
// Create a service, open a session, and close both when done:
//
//	svc, err := proofa.New(proofa.WithDownloadDir("out"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer svc.Close()
//
//	sess, err := svc.NewSession(proofa.NewDesktopPlatform())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer sess.Close()
//
//	err = sess.Update(&proofa.Receipt{
//	    BusinessName: "Ada Fabrics",
//	    CustomerName: "Tolu",
//	    Amount:       4500,
//	}, proofa.TemplateMinimalist)
//
//	res := sess.ShareToWhatsApp(ctx)
//	fmt.Println(proofa.ResultMessage(res))
//
// # Export Pipeline
//
//  1. Rendering: the payload becomes an HTML page with one capture target
//  2. Capture: the target is cloned without transforms and screenshotted at
//     twice its natural size
//  3. Building: the raster is saved as a PNG, or laid out on A4-wide PDF pages
//  4. Delivery: the file goes to the platform share sheet, or is downloaded
//     with a deep link to attach it by hand
//
// # Sessions
//
// A Session pre-bakes the file in the background after each edit, so a share
// tap does not wait for a capture. Only the latest edit's bake can publish a
// file. Taps during a bake wait briefly, then build the file themselves.
//
// Share and download methods never return errors; each returns a Result whose
// Outcome is shared, downloaded, aborted or error. ResultMessage gives the
// notification text for it.
//
// # Platforms
//
// DesktopPlatform can only download. CommandPlatform shares through an
// external command:
//
//	p := proofa.NewCommandPlatform("kdeconnect-cli --share {file}", 0)
//
// # Browser Requirements
//
// Capture requires Chrome/Chromium. The go-rod library automatically
// downloads a managed Chromium instance on first run (~/.cache/rod/browser/).
//
// For containers and CI environments, set ROD_NO_SANDBOX=1 to disable the
// Chrome sandbox. Use ROD_BROWSER_BIN to specify a custom Chrome binary.
package proofa
